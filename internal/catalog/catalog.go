// Package catalog holds brands and their menu items.
package catalog

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrBrandNotFound    = errors.New("Brand not found")
	ErrMenuItemNotFound = errors.New("Menu item not found")
)

type Brand struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

type MenuItem struct {
	ID        int64   `json:"id"`
	BrandID   int64   `json:"brand_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  *string `json:"category"`
	Available bool    `json:"available"`
}

// MenuFilter narrows ListMenuItems. A nil BrandID lists every brand.
type MenuFilter struct {
	BrandID       *int64
	AvailableOnly bool
}

type Store interface {
	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrand(ctx context.Context, id int64) (*Brand, error)
	GetBrandBySlug(ctx context.Context, slug string) (*Brand, error)

	ListMenuItems(ctx context.Context, filter MenuFilter) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*MenuItem, error)
	// GetMenuItems returns the items that exist among ids, keyed by id.
	GetMenuItems(ctx context.Context, ids []int64) (map[int64]MenuItem, error)
	CreateMenuItem(ctx context.Context, item *MenuItem) error
	UpdateMenuItem(ctx context.Context, item *MenuItem) error
	// CountOrderReferences counts order lines pointing at a menu item.
	CountOrderReferences(ctx context.Context, itemID int64) (int64, error)
}

type NewMenuItem struct {
	BrandID   int64   `json:"brand_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  *string `json:"category"`
	Available *bool   `json:"available"`
}

// ValidationError is a client input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (n NewMenuItem) Validate() error {
	if n.BrandID <= 0 {
		return &ValidationError{Field: "brand_id", Reason: "is required"}
	}
	if strings.TrimSpace(n.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if n.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// Item converts the request into a menu item. Items are available unless
// the request says otherwise.
func (n NewMenuItem) Item() MenuItem {
	available := true
	if n.Available != nil {
		available = *n.Available
	}
	return MenuItem{
		BrandID:   n.BrandID,
		Name:      n.Name,
		Price:     n.Price,
		Category:  n.Category,
		Available: available,
	}
}

// MenuItemPatch is a partial update; nil fields are left unchanged.
type MenuItemPatch struct {
	Name      *string  `json:"name"`
	Price     *float64 `json:"price"`
	Category  *string  `json:"category"`
	Available *bool    `json:"available"`
}

func (p MenuItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price != nil && *p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = p.Category
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
}
