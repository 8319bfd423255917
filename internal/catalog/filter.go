package catalog

import (
	"strings"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

// Price slider bounds in fils.
const (
	MinPrice int64 = 0
	MaxPrice int64 = 30000
)

// Filter narrows the product list. Within a dimension any value matches; the
// dimensions combine with AND. Price bounds are inclusive.
type Filter struct {
	Categories []string
	Families   []string
	Sizes      []string
	MinPrice   int64
	MaxPrice   int64
	Query      string
}

// DefaultFilter matches every product.
func DefaultFilter() Filter {
	return Filter{MinPrice: MinPrice, MaxPrice: MaxPrice}
}

func (f Filter) matches(p domain.Product) bool {
	if len(f.Categories) > 0 && !containsAny(f.Categories, p.Category) {
		return false
	}
	if len(f.Families) > 0 && !containsAny(f.Families, p.ScentFamilies...) {
		return false
	}
	if len(f.Sizes) > 0 && !containsAny(f.Sizes, p.Sizes...) {
		return false
	}
	if p.Price < f.MinPrice || p.Price > f.MaxPrice {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Summary), q) {
			return false
		}
	}
	return true
}

func containsAny(want []string, have ...string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// Filter returns the products matching f in id order.
func (c *Catalog) Filter(f Filter) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory lists one category.
func (c *Catalog) ByCategory(category string) []domain.Product {
	f := DefaultFilter()
	f.Categories = []string{category}
	return c.Filter(f)
}

// Families lists the distinct scent families in catalog order.
func (c *Catalog) Families() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.products {
		for _, fam := range p.ScentFamilies {
			if !seen[fam] {
				seen[fam] = true
				out = append(out, fam)
			}
		}
	}
	return out
}
