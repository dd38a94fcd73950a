// Package catalog holds the static product catalog. It is a read-only
// value injected into the reconciler and the page handlers; nothing in the
// system mutates it.
package catalog

import (
	"sort"
	"strings"

	"dcpstore/internal/domain"
)

type Catalog struct {
	products []domain.Product
	byID     map[int]domain.Product
}

func New(products []domain.Product) *Catalog {
	byID := make(map[int]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Default returns the demo store catalog.
func Default() *Catalog { return New(defaultProducts) }

// Lookup resolves a product id. The second result is false when the id no
// longer exists in the catalog.
func (c *Catalog) Lookup(id int) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns every product in catalog order.
func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns the distinct category names in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Sort orders for Search.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
)

// Search filters by category ("" or "all" matches everything) and a
// case-insensitive name substring, then applies the sort order.
func (c *Catalog) Search(q, category, order string) []domain.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []domain.Product
	for _, p := range c.products {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}
