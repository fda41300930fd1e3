package httpapi

import (
	"context"
	"sort"
	"sync"
	"time"

	extratelimit "github.com/vnmchuo/ratelimiter"

	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/catalog"
	"github.com/foodz/foodz-api/internal/orders"
)

// Mock catalog store
type mockCatalog struct {
	mu     sync.Mutex
	brands []catalog.Brand
	items  map[int64]*catalog.MenuItem
	refs   map[int64]int64
	nextID int64
}

func newMockCatalog() *mockCatalog {
	cat := "Pizza"
	m := &mockCatalog{
		brands: []catalog.Brand{
			{ID: 1, Name: "Healthy Foodz", Slug: "healthy-foodz"},
			{ID: 2, Name: "Tazty Foodz", Slug: "tazty-foodz"},
		},
		items: map[int64]*catalog.MenuItem{
			10: {ID: 10, BrandID: 2, Name: "Chicken Pizza", Price: 249, Category: &cat, Available: true},
			11: {ID: 11, BrandID: 2, Name: "Corn Pizza", Price: 209, Category: &cat, Available: false},
			12: {ID: 12, BrandID: 1, Name: "Salad", Price: 150, Available: true},
		},
		refs:   map[int64]int64{},
		nextID: 100,
	}
	return m
}

func (m *mockCatalog) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	return m.brands, nil
}

func (m *mockCatalog) GetBrand(ctx context.Context, id int64) (*catalog.Brand, error) {
	for _, b := range m.brands {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, catalog.ErrBrandNotFound
}

func (m *mockCatalog) GetBrandBySlug(ctx context.Context, slug string) (*catalog.Brand, error) {
	for _, b := range m.brands {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, catalog.ErrBrandNotFound
}

func (m *mockCatalog) ListMenuItems(ctx context.Context, filter catalog.MenuFilter) ([]catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []catalog.MenuItem{}
	for _, it := range m.items {
		if filter.BrandID != nil && it.BrandID != *filter.BrandID {
			continue
		}
		if filter.AvailableOnly && !it.Available {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCatalog) GetMenuItem(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrMenuItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *mockCatalog) GetMenuItems(ctx context.Context, ids []int64) (map[int64]catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]catalog.MenuItem{}
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			out[id] = *it
		}
	}
	return out, nil
}

func (m *mockCatalog) CreateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockCatalog) UpdateMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return catalog.ErrMenuItemNotFound
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockCatalog) CountOrderReferences(ctx context.Context, itemID int64) (int64, error) {
	return m.refs[itemID], nil
}

// Mock order store
type mockOrders struct {
	mu     sync.Mutex
	orders map[int64]*orders.Order
	nextID int64
}

func newMockOrders() *mockOrders {
	return &mockOrders{orders: map[int64]*orders.Order{}}
}

func (m *mockOrders) Create(ctx context.Context, order *orders.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrders) Get(ctx context.Context, id int64) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrders) List(ctx context.Context) ([]*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*orders.Order{}
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockOrders) UpdateStatus(ctx context.Context, id int64, status orders.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return orders.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrders) Stats(ctx context.Context) (*orders.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &orders.Stats{}
	for _, o := range m.orders {
		s.TotalOrders++
		s.TotalRevenue += o.Total
		switch o.Status {
		case orders.StatusPending:
			s.PendingCount++
		case orders.StatusPreparing:
			s.PreparingCount++
		case orders.StatusDelivered:
			s.DeliveredCount++
		}
	}
	return s, nil
}

// Mock user store and cache
type mockUsers struct {
	users map[string]*auth.User
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUsers) Upsert(ctx context.Context, user *auth.User) error {
	m.users[user.Username] = user
	return nil
}

type noCache struct{}

func (noCache) Get(ctx context.Context, username string) (*auth.User, error) {
	return nil, auth.ErrCacheMiss
}

func (noCache) Set(ctx context.Context, user *auth.User) error { return nil }

// Mock limiter store
type mockLimiterStore struct {
	allowed    bool
	resetAfter time.Duration
	err        error
}

func (m *mockLimiterStore) AllowN(ctx context.Context, key string, n int) (*extratelimit.Result, error) {
	return &extratelimit.Result{Allowed: m.allowed}, m.err
}

func (m *mockLimiterStore) Allow(ctx context.Context, key string) (*extratelimit.Result, error) {
	return &extratelimit.Result{Allowed: m.allowed}, m.err
}

func (m *mockLimiterStore) Status(ctx context.Context, key string) (*extratelimit.Result, error) {
	return &extratelimit.Result{Allowed: m.allowed, ResetAfter: m.resetAfter}, m.err
}
