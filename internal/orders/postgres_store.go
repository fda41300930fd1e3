package orders

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

// DB must be safe for concurrent use; Stats queries it in parallel.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
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

const orderColumns = `id, brand_id, total, status, customer_name, customer_phone, address, payment_method, created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.BrandID, &o.Total, &o.Status, &o.CustomerName,
		&o.CustomerPhone, &o.Address, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []Item{}
	return &o, nil
}

func (s *PostgresStore) Create(ctx context.Context, order *Order) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (brand_id, total, status, customer_name, customer_phone, address, payment_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`, order.BrandID, order.Total, order.Status, order.CustomerName,
			order.CustomerPhone, order.Address, order.PaymentMethod,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return errors.Wrap(err, "failed to insert order")
		}

		for i := range order.Items {
			it := &order.Items[i]
			it.OrderID = order.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, menu_item_id, quantity, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, it.OrderID, it.MenuItemID, it.Quantity, it.Price).Scan(&it.ID)
			if err != nil {
				return errors.Wrapf(err, "failed to insert order item for menu item %d", it.MenuItemID)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := scanOrder(s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "failed to get order")
	}

	byOrder := map[int64]*Order{order.ID: order}
	if err := s.loadItems(ctx, byOrder, `WHERE oi.order_id = $1`, id); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query orders")
	}
	defer rows.Close()

	out := []*Order{}
	byOrder := map[int64]*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan order")
		}
		out = append(out, o)
		byOrder[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating orders")
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	if err := s.loadItems(ctx, byOrder, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, byOrder map[int64]*Order, where string, args ...any) error {
	rows, err := s.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, m.name
		FROM order_items oi
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		`+where+`
		ORDER BY oi.id
	`, args...)
	if err != nil {
		return errors.Wrap(err, "failed to query order items")
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.Price, &it.Name); err != nil {
			return errors.Wrap(err, "failed to scan order item")
		}
		if o, ok := byOrder[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "error iterating order items")
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.QueryRow(gctx, `SELECT COUNT(id), COALESCE(SUM(total), 0) FROM orders`).
			Scan(&st.TotalOrders, &st.TotalRevenue)
	})
	for status, dst := range map[Status]*int64{
		StatusPending:   &st.PendingCount,
		StatusPreparing: &st.PreparingCount,
		StatusDelivered: &st.DeliveredCount,
	} {
		g.Go(func() error {
			return s.db.QueryRow(gctx, `SELECT COUNT(id) FROM orders WHERE status = $1`, status).Scan(dst)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to compute order stats")
	}
	return &st, nil
}
