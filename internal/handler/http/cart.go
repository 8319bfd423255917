package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/domain"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
)

// CartHandler serves the client's cart.
type CartHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewCartHandler(c *catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{catalog: c, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest adds a catalog product to the cart. Size defaults to the
// product's default size. A missing or non-positive quantity becomes 1.
type AddItemRequest struct {
	ProductID int    `json:"productId" validate:"required,gt=0"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity,omitempty" validate:"max=99"`
}

// UpdateQuantityRequest sets a line quantity. Values below 1 become 1.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

// --- Response types ---

// CartResponse is the cart view.
type CartResponse struct {
	Lines         []domain.CartLine `json:"lines"`
	ItemCount     int               `json:"itemCount"`
	Subtotal      int64             `json:"subtotal"`
	SubtotalLabel string            `json:"subtotalLabel"`
	IsLoading     bool              `json:"isLoading"`
}

func cartResponse(c domain.Cart, loading bool) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{
		Lines:         lines,
		ItemCount:     c.ItemCount,
		Subtotal:      c.Subtotal,
		SubtotalLabel: domain.FormatPrice(c.Subtotal),
		IsLoading:     loading,
	}
}

// --- Handlers ---

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	httputil.WriteData(w, http.StatusOK, cartResponse(c.Cart.Cart(), c.Cart.IsLoading()))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, &req) {
		return
	}

	p, ok := h.catalog.Purchasable(req.ProductID)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", strconv.Itoa(req.ProductID)), h.logger)
		return
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = p.DefaultSize()
	}
	if !p.OffersSize(size) {
		httputil.WriteError(w, r, apperrors.InvalidInput("size "+size+" is not offered for "+p.Name), h.logger)
		return
	}
	c := clientFrom(r)
	cart := c.Cart.AddItem(r.Context(), p.CartLine(size, domain.ClampQuantity(req.Quantity)))
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, false))
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}/{size}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !decode(w, r, &req) {
		return
	}

	size := chi.URLParam(r, "size")
	cart, found := clientFrom(r).Cart.UpdateQuantity(r.Context(), id, size, req.Quantity)
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("cart line", lineRef(id, size)), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, false))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}/{size}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	size := chi.URLParam(r, "size")
	cart, found := clientFrom(r).Cart.RemoveItem(r.Context(), id, size)
	if !found {
		httputil.WriteError(w, r, apperrors.NotFound("cart line", lineRef(id, size)), h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, false))
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart := clientFrom(r).Cart.Clear(r.Context())
	httputil.WriteData(w, http.StatusOK, cartResponse(cart, false))
}

func lineRef(id int, size string) string {
	return strconv.Itoa(id) + "/" + size
}
