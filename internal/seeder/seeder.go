package seeder

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/auth"
)

//go:embed schema.sql
var Schema string

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// ClearUnreferencedMenu deletes menu items no order points at and returns
// how many were removed.
func ClearUnreferencedMenu(ctx context.Context, db DB) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM menu_items WHERE id NOT IN (SELECT menu_item_id FROM order_items)`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clear unreferenced menu items")
	}
	return tag.RowsAffected(), nil
}

// SeedCatalog upserts the built-in brands and their menus. Existing items
// keep their ids so orders that reference them stay valid.
func SeedCatalog(ctx context.Context, db DB, logger *zap.Logger) error {
	for _, b := range Brands {
		var brandID int64
		err := db.QueryRow(ctx, `
			INSERT INTO brands (name, slug, description) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
			RETURNING id
		`, b.Name, b.Slug, b.Description).Scan(&brandID)
		if err != nil {
			return errors.Wrapf(err, "failed to seed brand %s", b.Slug)
		}

		for _, it := range Menus[b.Slug] {
			_, err := db.Exec(ctx, `
				INSERT INTO menu_items (brand_id, name, price, category, available)
				VALUES ($1, $2, $3, $4, true)
				ON CONFLICT (brand_id, name) DO UPDATE
				SET price = EXCLUDED.price, category = EXCLUDED.category, available = EXCLUDED.available
			`, brandID, it.Name, it.Price, it.Category)
			if err != nil {
				return errors.Wrapf(err, "failed to seed menu item %q for %s", it.Name, b.Slug)
			}
		}
		logger.Info("seeded brand", zap.String("slug", b.Slug), zap.Int("menu_items", len(Menus[b.Slug])))
	}
	return nil
}

// SeedAdmin creates or refreshes the admin account. It is a no-op when no
// username or password is configured.
func SeedAdmin(ctx context.Context, store auth.Store, username, password string, logger *zap.Logger) error {
	if username == "" || password == "" {
		logger.Info("admin credentials not configured, skipping admin seed")
		return nil
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &auth.User{Username: username, HashedPassword: hashed, Role: auth.RoleAdmin}
	if err := store.Upsert(ctx, user); err != nil {
		return err
	}
	logger.Info("admin user ready", zap.String("username", username), zap.Int64("id", user.ID))
	return nil
}

type BrandCount struct {
	Name  string
	Items int64
}

type Report struct {
	Brands             int64
	MenuItems          int64
	DistinctCategories int64
	PerBrand           []BrandCount
}

func Counts(ctx context.Context, db DB) (*Report, error) {
	var r Report
	err := db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM brands),
			(SELECT COUNT(*) FROM menu_items),
			(SELECT COUNT(DISTINCT category) FROM menu_items)
	`).Scan(&r.Brands, &r.MenuItems, &r.DistinctCategories)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count catalog")
	}

	rows, err := db.Query(ctx, `
		SELECT b.name, COUNT(m.id)
		FROM brands b LEFT JOIN menu_items m ON b.id = m.brand_id
		GROUP BY b.name
		ORDER BY b.name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count menu items per brand")
	}
	defer rows.Close()
	for rows.Next() {
		var bc BrandCount
		if err := rows.Scan(&bc.Name, &bc.Items); err != nil {
			return nil, errors.Wrap(err, "failed to scan brand count")
		}
		r.PerBrand = append(r.PerBrand, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating brand counts")
	}
	return &r, nil
}

func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "brands_count: %d\n", r.Brands)
	fmt.Fprintf(w, "menu_items_count: %d\n", r.MenuItems)
	fmt.Fprintf(w, "distinct_categories: %d\n", r.DistinctCategories)
	for _, bc := range r.PerBrand {
		fmt.Fprintf(w, "%s: %d\n", bc.Name, bc.Items)
	}
}
