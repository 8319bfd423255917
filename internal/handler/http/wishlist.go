package http

import (
	"net/http"
	"strconv"

	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/domain"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// WishlistHandler serves the client's wishlist.
type WishlistHandler struct {
	catalog *catalog.Catalog
}

func NewWishlistHandler(c *catalog.Catalog) *WishlistHandler {
	return &WishlistHandler{catalog: c}
}

// WishlistResponse lists the saved products.
type WishlistResponse struct {
	Entries   []domain.WishlistEntry `json:"entries"`
	Count     int                    `json:"count"`
	IsLoading bool                   `json:"isLoading"`
}

// MembershipResponse tells whether a product is saved.
type MembershipResponse struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	wl := c.Wishlist.Wishlist()
	entries := wl.Entries
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	httputil.WriteData(w, http.StatusOK, WishlistResponse{Entries: entries, Count: wl.Count, IsLoading: c.Wishlist.IsLoading()})
}

// Contains handles GET /api/v1/wishlist/{productId}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	httputil.WriteData(w, http.StatusOK, MembershipResponse{ProductID: id, InWishlist: clientFrom(r).Wishlist.Contains(id)})
}

// Add handles POST /api/v1/wishlist/{productId}. Adding a saved product is a no-op.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if clientFrom(r).Wishlist.Add(r.Context(), p.WishlistEntry()) {
		status = http.StatusCreated
	}
	httputil.WriteData(w, status, MembershipResponse{ProductID: p.ID, InWishlist: true})
}

// Toggle handles POST /api/v1/wishlist/{productId}/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	saved := clientFrom(r).Wishlist.Toggle(r.Context(), p.WishlistEntry())
	httputil.WriteData(w, http.StatusOK, MembershipResponse{ProductID: p.ID, InWishlist: saved})
}

// Remove handles DELETE /api/v1/wishlist/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	if !clientFrom(r).Wishlist.Remove(r.Context(), id) {
		httputil.WriteError(w, r, apperrors.NotFound("wishlist entry", strconv.Itoa(id)), nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, MembershipResponse{ProductID: id, InWishlist: false})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	clientFrom(r).Wishlist.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) product(w http.ResponseWriter, r *http.Request) (domain.Product, bool) {
	id, ok := productIDParam(w, r)
	if !ok {
		return domain.Product{}, false
	}
	p, ok := h.catalog.Purchasable(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.Itoa(id)), nil)
		return domain.Product{}, false
	}
	return p, true
}
