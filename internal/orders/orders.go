// Package orders places customer orders and manages their lifecycle.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemUnavailable = errors.New("menu item not available for this brand")
	ErrInvalidStatus       = errors.New("invalid status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusDelivered: true,
	StatusCancelled: true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

const DefaultPaymentMethod = "COD"

type Order struct {
	ID            int64     `json:"id"`
	BrandID       int64     `json:"brand_id"`
	Total         float64   `json:"total"`
	Status        Status    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone *string   `json:"customer_phone"`
	Address       *string   `json:"address"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	Items         []Item    `json:"items"`
}

type Item struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"-"`
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Name       *string `json:"name,omitempty"`
}

type CartItem struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

type PlaceRequest struct {
	BrandSlug     string     `json:"brand_slug"`
	Items         []CartItem `json:"items"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	Address       *string    `json:"address"`
	PaymentMethod string     `json:"payment_method"`
}

// ValidationError is a client input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (r PlaceRequest) Validate() error {
	if strings.TrimSpace(r.BrandSlug) == "" {
		return &ValidationError{Field: "brand_slug", Reason: "is required"}
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return &ValidationError{Field: "customer_name", Reason: "is required"}
	}
	if len(r.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for i, it := range r.Items {
		if it.Quantity <= 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be greater than 0"}
		}
	}
	return nil
}

// MenuEntry is the slice of a menu item an order needs.
type MenuEntry struct {
	ID        int64
	BrandID   int64
	Name      string
	Price     float64
	Available bool
}

// Build prices the cart against the brand's menu. Client-side prices are
// never trusted; every line must be an available item of the brand.
func Build(brandID int64, menu map[int64]MenuEntry, req PlaceRequest) (*Order, error) {
	order := &Order{
		BrandID:       brandID,
		Status:        StatusPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = DefaultPaymentMethod
	}

	var total float64
	for _, c := range req.Items {
		m, ok := menu[c.MenuItemID]
		if !ok || m.BrandID != brandID || !m.Available {
			return nil, fmt.Errorf("menu item %d: %w", c.MenuItemID, ErrMenuItemUnavailable)
		}
		name := m.Name
		order.Items = append(order.Items, Item{
			MenuItemID: m.ID,
			Quantity:   c.Quantity,
			Price:      m.Price,
			Name:       &name,
		})
		total += m.Price * float64(c.Quantity)
	}
	order.Total = math.Round(total*100) / 100
	return order, nil
}

type Stats struct {
	TotalOrders    int64   `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	PendingCount   int64   `json:"pending_count"`
	PreparingCount int64   `json:"preparing_count"`
	DeliveredCount int64   `json:"delivered_count"`
}

type Store interface {
	// Create writes the order and its items atomically, filling IDs and CreatedAt.
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	// List returns every order newest first, items carrying menu item names.
	List(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Stats(ctx context.Context) (*Stats, error)
}
