package domain

// Categories.
const (
	CategoryWomen  = "Women"
	CategoryMen    = "Men"
	CategoryUnisex = "Unisex"
)

// ValidCategory reports whether c is a browsable category.
func ValidCategory(c string) bool {
	return c == CategoryWomen || c == CategoryMen || c == CategoryUnisex
}

// Notes is a fragrance pyramid.
type Notes struct {
	Top   []string `json:"top" yaml:"top"`
	Heart []string `json:"heart" yaml:"heart"`
	Base  []string `json:"base" yaml:"base"`
}

// Product is a catalog entry. Price is in fils.
type Product struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary"`
	Description   string   `json:"description,omitempty"`
	Price         int64    `json:"price"`
	PriceLabel    string   `json:"priceLabel"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	ScentFamilies []string `json:"scentFamilies,omitempty"`
	Sizes         []string `json:"sizes"`
	IsNew         bool     `json:"isNew"`
	Notes         *Notes   `json:"notes,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Reviews       int      `json:"reviews,omitempty"`
	Related       []int    `json:"related,omitempty"`
	Similarity    int      `json:"similarity,omitempty"`
	Recommended   bool     `json:"recommended,omitempty"`
	PresetSize    string   `json:"-"`
}

// DefaultSize is the size used when none is chosen: PresetSize if set, else the
// second size when there is one, else the first.
func (p Product) DefaultSize() string {
	if p.PresetSize != "" {
		return p.PresetSize
	}
	switch len(p.Sizes) {
	case 0:
		return ""
	case 1:
		return p.Sizes[0]
	default:
		return p.Sizes[1]
	}
}

// OffersSize reports whether size is sold for p.
func (p Product) OffersSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// CartLine snapshots p into a line.
func (p Product) CartLine(size string, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Name:      p.Name,
		ImageRef:  p.Image,
	}
}

// WishlistEntry snapshots p into a wishlist entry.
func (p Product) WishlistEntry() WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.Image,
		Category:  p.Category,
	}
}
