package http

import (
	"log/slog"
	"net/http"

	"github.com/jannathh/Scentify-Project/internal/domain"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// AuthHandler handles sign-in, registration and sign-out.
type AuthHandler struct {
	logger *slog.Logger
}

func NewAuthHandler(logger *slog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// --- Request DTOs ---

// LoginRequest is the JSON request body for sign-in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string `json:"lastName" validate:"required,min=1,max=100"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// --- Response types ---

// SessionResponse describes the client's session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	IsLoading     bool         `json:"isLoading"`
	User          *domain.User `json:"user"`
}

// --- Handlers ---

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeSession(w, r, http.StatusOK)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if !clientFrom(r).Session.Login(r.Context(), req.Email, req.Password) {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid email or password"), h.logger)
		return
	}
	writeSession(w, r, http.StatusOK)
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	fields := domain.ProfileFields{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	if !clientFrom(r).Session.Register(r.Context(), fields, req.Password) {
		httputil.WriteError(w, r, apperrors.Conflict("registration failed"), h.logger)
		return
	}
	writeSession(w, r, http.StatusCreated)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientFrom(r).Session.Logout(r.Context())
	writeSession(w, r, http.StatusOK)
}

func writeSession(w http.ResponseWriter, r *http.Request, status int) {
	c := clientFrom(r)
	u := c.Session.User()
	httputil.WriteData(w, status, SessionResponse{
		Authenticated: u != nil,
		IsLoading:     c.IsLoading(),
		User:          u,
	})
}
