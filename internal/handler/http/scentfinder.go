package http

import (
	"net/http"

	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// ScentFinderHandler drives the client's scent finder.
type ScentFinderHandler struct{}

func NewScentFinderHandler() *ScentFinderHandler {
	return &ScentFinderHandler{}
}

// Get handles GET /api/v1/scent-finder
func (h *ScentFinderHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, clientFrom(r).Finder.View())
}

// Start handles POST /api/v1/scent-finder/start
func (h *ScentFinderHandler) Start(w http.ResponseWriter, r *http.Request) {
	v, err := clientFrom(r).Finder.Start(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, nil)
		return
	}
	httputil.WriteData(w, http.StatusAccepted, v)
}

// Reset handles POST /api/v1/scent-finder/reset
func (h *ScentFinderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, clientFrom(r).Finder.Reset())
}
