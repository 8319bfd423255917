// Package catalog serves the compiled-in product catalog and the scent finder table.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/pkg/slug"
)

//go:embed catalog.yaml
var catalogYAML []byte

// scentFinderSize is the size offered when a scent finder match is added to the cart.
const scentFinderSize = "50ml"

type productRecord struct {
	ID            int           `yaml:"id"`
	Name          string        `yaml:"name"`
	Summary       string        `yaml:"summary"`
	Description   string        `yaml:"description"`
	Price         string        `yaml:"price"`
	Image         string        `yaml:"image"`
	Category      string        `yaml:"category"`
	ScentFamilies []string      `yaml:"scent_families"`
	Sizes         []string      `yaml:"sizes"`
	IsNew         bool          `yaml:"is_new"`
	Notes         *domain.Notes `yaml:"notes"`
	Rating        float64       `yaml:"rating"`
	Reviews       int           `yaml:"reviews"`
	Related       []int         `yaml:"related"`
	Similarity    int           `yaml:"similarity"`
	Recommended   bool          `yaml:"recommended"`
}

type document struct {
	Products    []productRecord `yaml:"products"`
	ScentFinder []productRecord `yaml:"scent_finder"`
}

// Catalog is an immutable, indexed product set.
type Catalog struct {
	products []domain.Product
	byID     map[int]domain.Product
	bySlug   map[string]domain.Product
	scents   map[int]domain.Product
	recs     []domain.Product
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse builds a Catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		byID:   make(map[int]domain.Product, len(doc.Products)),
		bySlug: make(map[string]domain.Product, len(doc.Products)),
		scents: make(map[int]domain.Product, len(doc.ScentFinder)),
	}

	for _, rec := range doc.Products {
		p, err := rec.toProduct()
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %d", p.ID)
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
		c.bySlug[p.Slug] = p
	}
	for _, rec := range doc.ScentFinder {
		p, err := rec.toProduct()
		if err != nil {
			return nil, err
		}
		p.PresetSize = scentFinderSize
		c.scents[p.ID] = p
		if p.Recommended {
			c.recs = append(c.recs, p)
		}
	}
	sort.Slice(c.products, func(i, j int) bool { return c.products[i].ID < c.products[j].ID })
	sort.Slice(c.recs, func(i, j int) bool { return c.recs[i].ID < c.recs[j].ID })

	for _, p := range c.products {
		for _, id := range p.Related {
			if _, ok := c.byID[id]; !ok {
				return nil, fmt.Errorf("catalog: product %d relates to unknown product %d", p.ID, id)
			}
		}
	}
	return c, nil
}

func (r productRecord) toProduct() (domain.Product, error) {
	if r.ID <= 0 || r.Name == "" {
		return domain.Product{}, fmt.Errorf("catalog: product %d needs an id and a name", r.ID)
	}
	price, err := domain.ParsePrice(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog: product %d: %w", r.ID, err)
	}
	if !domain.ValidCategory(r.Category) {
		return domain.Product{}, fmt.Errorf("catalog: product %d has unknown category %q", r.ID, r.Category)
	}
	if len(r.Sizes) == 0 {
		return domain.Product{}, fmt.Errorf("catalog: product %d has no sizes", r.ID)
	}
	return domain.Product{
		ID:            r.ID,
		Slug:          slug.Generate(r.Name),
		Name:          r.Name,
		Summary:       r.Summary,
		Description:   r.Description,
		Price:         price,
		PriceLabel:    domain.FormatPrice(price),
		Image:         r.Image,
		Category:      r.Category,
		ScentFamilies: r.ScentFamilies,
		Sizes:         r.Sizes,
		IsNew:         r.IsNew,
		Notes:         r.Notes,
		Rating:        r.Rating,
		Reviews:       r.Reviews,
		Related:       r.Related,
		Similarity:    r.Similarity,
		Recommended:   r.Recommended,
	}, nil
}

// All returns the storefront products in id order.
func (c *Catalog) All() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

func (c *Catalog) Product(id int) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Lookup resolves a numeric id or a slug.
func (c *Catalog) Lookup(ref string) (domain.Product, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		return c.Product(id)
	}
	p, ok := c.bySlug[ref]
	return p, ok
}

// Related returns the products p links to.
func (c *Catalog) Related(p domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(p.Related))
	for _, id := range p.Related {
		if r, ok := c.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ScentMatch returns a scent finder product.
func (c *Catalog) ScentMatch(id int) (domain.Product, bool) {
	p, ok := c.scents[id]
	return p, ok
}

// Recommendations lists the scent finder suggestions shown with every result.
func (c *Catalog) Recommendations() []domain.Product {
	return append([]domain.Product(nil), c.recs...)
}

// Purchasable finds id among storefront and scent finder products.
func (c *Catalog) Purchasable(id int) (domain.Product, bool) {
	if p, ok := c.byID[id]; ok {
		return p, true
	}
	return c.ScentMatch(id)
}
