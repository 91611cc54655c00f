package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
)

// Category groups products of a branch menu. A category with a ParentID is a subcategory.
type Category struct {
	shared.TenantAggregateRoot
	BranchID    uuid.UUID
	ParentID    *uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Order       int
	Active      bool
}

// NewCategory creates an active top-level category
func NewCategory(tenantID, branchID uuid.UUID, name, description string, order int) (*Category, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("BRANCH_REQUIRED", "La sucursal es obligatoria")
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "El orden no puede ser negativo")
	}
	c := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		Name:                strings.TrimSpace(name),
		Description:         strings.TrimSpace(description),
		Order:               order,
		Active:              true,
	}
	c.AddDomainEvent(NewCategoryCreatedEvent(c))
	return c, nil
}

// NewSubcategory creates a category nested under parent. Only one level of nesting is allowed.
func NewSubcategory(parent *Category, name, description string, order int) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("PARENT_REQUIRED", "La categoría padre es obligatoria")
	}
	if parent.IsSubcategory() {
		return nil, shared.NewDomainError("NESTING_TOO_DEEP", "Una subcategoría no puede tener subcategorías")
	}
	c, err := NewCategory(parent.TenantID, parent.BranchID, name, description, order)
	if err != nil {
		return nil, err
	}
	parentID := parent.ID
	c.ParentID = &parentID
	return c, nil
}

// Update changes the editable fields. It returns the previous image URL when it was replaced.
func (c *Category) Update(name, description, imageURL string) (string, error) {
	if err := validateCategoryName(name); err != nil {
		return "", err
	}
	replaced := ""
	if c.ImageURL != "" && c.ImageURL != imageURL {
		replaced = c.ImageURL
	}
	c.Name = strings.TrimSpace(name)
	c.Description = strings.TrimSpace(description)
	c.ImageURL = imageURL
	c.IncrementVersion()
	return replaced, nil
}

// SetOrder moves the category within its siblings
func (c *Category) SetOrder(order int) error {
	if order < 0 {
		return shared.NewDomainError("INVALID_ORDER", "El orden no puede ser negativo")
	}
	if c.Order == order {
		return nil
	}
	c.Order = order
	c.IncrementVersion()
	return nil
}

// SetActive shows or hides the category in the storefront
func (c *Category) SetActive(active bool) {
	if c.Active == active {
		return
	}
	c.Active = active
	c.IncrementVersion()
}

// IsSubcategory reports whether the category has a parent
func (c *Category) IsSubcategory() bool {
	return c.ParentID != nil
}

// CanDelete checks a category is empty before deletion
func (c *Category) CanDelete(subcategories, products int64) error {
	if subcategories > 0 {
		return shared.NewDomainError("CATEGORY_HAS_CHILDREN", "La categoría tiene subcategorías")
	}
	if products > 0 {
		return shared.NewDomainError("CATEGORY_HAS_PRODUCTS", "La categoría tiene productos")
	}
	return nil
}

// SortByOrder sorts categories by Order ascending, then by name
func SortByOrder(categories []Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
}

// NextOrder returns the order for a new sibling given the current maximum; nil means no siblings
func NextOrder(maxOrder *int) int {
	if maxOrder == nil {
		return 0
	}
	return *maxOrder + 1
}

// OrderChange is one entry of a bulk reorder request
type OrderChange struct {
	ID    uuid.UUID
	Order int
}

// ValidateReorder checks a bulk reorder has no duplicate IDs or negative positions
func ValidateReorder(changes []OrderChange) error {
	if len(changes) == 0 {
		return shared.NewDomainError("INVALID_REORDER", "No se indicaron cambios de orden")
	}
	seen := make(map[uuid.UUID]bool, len(changes))
	for _, ch := range changes {
		if ch.Order < 0 {
			return shared.NewDomainError("INVALID_ORDER", "El orden no puede ser negativo")
		}
		if seen[ch.ID] {
			return shared.NewDomainError("INVALID_REORDER", "Elemento repetido en el orden")
		}
		seen[ch.ID] = true
	}
	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre de la categoría es obligatorio")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "El nombre no puede superar los 100 caracteres")
	}
	return nil
}
