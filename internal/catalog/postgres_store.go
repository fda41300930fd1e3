package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) Store {
	return &PostgresStore{db: db}
}

const menuItemColumns = `id, brand_id, name, price, category, available`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.BrandID, &m.Name, &m.Price, &m.Category, &m.Available)
	return m, err
}

func (s *PostgresStore) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, slug, description FROM brands ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query brands")
	}
	defer rows.Close()

	brands := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description); err != nil {
			return nil, errors.Wrap(err, "failed to scan brand")
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating brands")
	}
	return brands, nil
}

func (s *PostgresStore) getBrand(ctx context.Context, where string, arg any) (*Brand, error) {
	var b Brand
	err := s.db.QueryRow(ctx, `SELECT id, name, slug, description FROM brands WHERE `+where, arg).
		Scan(&b.ID, &b.Name, &b.Slug, &b.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, errors.Wrap(err, "failed to get brand")
	}
	return &b, nil
}

func (s *PostgresStore) GetBrand(ctx context.Context, id int64) (*Brand, error) {
	return s.getBrand(ctx, "id = $1", id)
}

func (s *PostgresStore) GetBrandBySlug(ctx context.Context, slug string) (*Brand, error) {
	return s.getBrand(ctx, "slug = $1", slug)
}

func (s *PostgresStore) ListMenuItems(ctx context.Context, filter MenuFilter) ([]MenuItem, error) {
	var (
		conds []string
		args  []any
	)
	if filter.BrandID != nil {
		args = append(args, *filter.BrandID)
		conds = append(conds, "brand_id = $1")
	}
	if filter.AvailableOnly {
		conds = append(conds, "available = true")
	}

	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query menu items")
	}
	defer rows.Close()

	items := []MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan menu item")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating menu items")
	}
	return items, nil
}

func (s *PostgresStore) GetMenuItem(ctx context.Context, id int64) (*MenuItem, error) {
	m, err := scanMenuItem(s.db.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, errors.Wrap(err, "failed to get menu item")
	}
	return &m, nil
}

func (s *PostgresStore) GetMenuItems(ctx context.Context, ids []int64) (map[int64]MenuItem, error) {
	out := make(map[int64]MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query menu items")
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan menu item")
		}
		out[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating menu items")
	}
	return out, nil
}

func (s *PostgresStore) CreateMenuItem(ctx context.Context, item *MenuItem) error {
	query := `
		INSERT INTO menu_items (brand_id, name, price, category, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRow(ctx, query, item.BrandID, item.Name, item.Price, item.Category, item.Available).
		Scan(&item.ID)
	if err != nil {
		return errors.Wrap(err, "failed to create menu item")
	}
	return nil
}

func (s *PostgresStore) UpdateMenuItem(ctx context.Context, item *MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, price = $3, category = $4, available = $5
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query, item.ID, item.Name, item.Price, item.Category, item.Available)
	if err != nil {
		return errors.Wrap(err, "failed to update menu item")
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func (s *PostgresStore) CountOrderReferences(ctx context.Context, itemID int64) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(id) FROM order_items WHERE menu_item_id = $1`, itemID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count order references")
	}
	return n, nil
}
