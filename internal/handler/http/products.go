package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/domain"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/httputil"
	"github.com/jannathh/Scentify-Project/pkg/pagination"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	catalog *catalog.Catalog
}

func NewProductHandler(c *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: c}
}

// ProductDetail is a product with its related products.
type ProductDetail struct {
	domain.Product
	Related []domain.Product `json:"related"`
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, pagination.Paginate(h.catalog.Filter(f), pagination.FromRequest(r)))
}

// Get handles GET /api/v1/products/{ref}, where ref is an id or a slug.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	p, ok := h.catalog.Lookup(ref)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", ref), nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, ProductDetail{Product: p, Related: h.catalog.Related(p)})
}

// ByCategory handles GET /api/v1/categories/{category}/products
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := cases.Title(language.English).String(strings.TrimSpace(chi.URLParam(r, "category")))
	if !domain.ValidCategory(category) {
		httputil.WriteError(w, r, apperrors.InvalidInput("unknown category: "+chi.URLParam(r, "category")), nil)
		return
	}
	httputil.WriteData(w, http.StatusOK, pagination.Paginate(h.catalog.ByCategory(category), pagination.FromRequest(r)))
}

// filterFromQuery reads category, family and size (repeatable or
// comma-separated), min_price and max_price in AED, and q.
func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.DefaultFilter()
	f.Categories = listParam(q["category"])
	f.Families = listParam(q["family"])
	f.Sizes = listParam(q["size"])
	f.Query = strings.TrimSpace(q.Get("q"))

	for _, bound := range []struct {
		name string
		dst  *int64
	}{
		{"min_price", &f.MinPrice},
		{"max_price", &f.MaxPrice},
	} {
		raw := strings.TrimSpace(q.Get(bound.name))
		if raw == "" {
			continue
		}
		v, err := domain.ParsePrice(raw)
		if err != nil {
			return f, apperrors.InvalidInput("invalid " + bound.name + ": " + raw)
		}
		*bound.dst = v
	}
	if f.MinPrice > f.MaxPrice {
		return f, apperrors.InvalidInput("min_price must not exceed max_price")
	}
	return f, nil
}

func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
