package service

import "net/url"

// GateOutcome is what a protected route should do.
type GateOutcome int

const (
	// GateWait renders nothing while the session is still loading.
	GateWait GateOutcome = iota
	GateRender
	GateRedirect
)

func (o GateOutcome) String() string {
	switch o {
	case GateWait:
		return "wait"
	case GateRender:
		return "render"
	case GateRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// GateDecision is the outcome plus the login target for GateRedirect.
type GateDecision struct {
	Outcome  GateOutcome
	Redirect string
}

// Gate decides access to the protected route at path.
func Gate(isLoading, isAuthenticated bool, path string) GateDecision {
	switch {
	case isLoading:
		return GateDecision{Outcome: GateWait}
	case isAuthenticated:
		return GateDecision{Outcome: GateRender}
	default:
		return GateDecision{Outcome: GateRedirect, Redirect: LoginRedirect(path)}
	}
}

// LoginRedirect is the login page carrying path as its return URL.
func LoginRedirect(path string) string {
	return "/login?returnUrl=" + url.QueryEscape(path)
}
