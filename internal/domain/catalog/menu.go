package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MenuSection is an active top-level category with its subcategories and available products
type MenuSection struct {
	Category      Category
	Products      []Product
	Subcategories []MenuSubsection
}

// MenuSubsection is an active subcategory with its available products
type MenuSubsection struct {
	Category Category
	Products []Product
}

// BuildMenu groups available products under their active categories. Products in an
// inactive subcategory fall back to the parent section; empty sections are dropped.
func BuildMenu(categories []Category, products []Product) []MenuSection {
	cats := append([]Category(nil), categories...)
	SortByOrder(cats)

	sectionIdx := make(map[uuid.UUID]int)
	subIdx := make(map[uuid.UUID][2]int)
	sections := make([]MenuSection, 0)

	for _, c := range cats {
		if !c.Active || c.IsSubcategory() {
			continue
		}
		sectionIdx[c.ID] = len(sections)
		sections = append(sections, MenuSection{Category: c})
	}
	for _, c := range cats {
		if !c.Active || !c.IsSubcategory() {
			continue
		}
		si, ok := sectionIdx[*c.ParentID]
		if !ok {
			continue
		}
		subIdx[c.ID] = [2]int{si, len(sections[si].Subcategories)}
		sections[si].Subcategories = append(sections[si].Subcategories, MenuSubsection{Category: c})
	}

	prods := append([]Product(nil), products...)
	SortProducts(prods)
	for _, p := range prods {
		if !p.Available {
			continue
		}
		if p.SubcategoryID != nil {
			if pos, ok := subIdx[*p.SubcategoryID]; ok {
				sub := &sections[pos[0]].Subcategories[pos[1]]
				sub.Products = append(sub.Products, p)
				continue
			}
		}
		if si, ok := sectionIdx[p.CategoryID]; ok {
			sections[si].Products = append(sections[si].Products, p)
		}
	}

	result := sections[:0]
	for _, s := range sections {
		subs := s.Subcategories[:0]
		for _, sub := range s.Subcategories {
			if len(sub.Products) > 0 {
				subs = append(subs, sub)
			}
		}
		s.Subcategories = subs
		if len(s.Products) > 0 || len(s.Subcategories) > 0 {
			result = append(result, s)
		}
	}
	return result
}

// SortProducts sorts products by Order ascending, then by name
func SortProducts(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Order != products[j].Order {
			return products[i].Order < products[j].Order
		}
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
}
