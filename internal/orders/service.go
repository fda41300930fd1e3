package orders

import (
	"context"

	"github.com/samber/lo"

	"github.com/foodz/foodz-api/internal/catalog"
)

// Service places orders against the catalog.
type Service struct {
	catalog catalog.Store
	store   Store
}

func NewService(catalog catalog.Store, store Store) *Service {
	return &Service{catalog: catalog, store: store}
}

// Place validates the request, prices it from the brand's menu and stores
// it. Unknown brands return catalog.ErrBrandNotFound; lines outside the
// brand's available menu return ErrMenuItemUnavailable.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	brand, err := s.catalog.GetBrandBySlug(ctx, req.BrandSlug)
	if err != nil {
		return nil, err
	}

	ids := lo.Uniq(lo.Map(req.Items, func(it CartItem, _ int) int64 { return it.MenuItemID }))
	items, err := s.catalog.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	menu := lo.MapValues(items, func(m catalog.MenuItem, _ int64) MenuEntry {
		return MenuEntry{ID: m.ID, BrandID: m.BrandID, Name: m.Name, Price: m.Price, Available: m.Available}
	})

	order, err := Build(brand.ID, menu, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Order, error) {
	return s.store.List(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.store.UpdateStatus(ctx, id, status)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}
