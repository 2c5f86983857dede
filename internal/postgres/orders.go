package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meninadelaco/storefront/internal/catalog"
)

const orderCols = `id, order_number, customer_name, customer_email, status, total_cents, created_at`

func scanOrder(row pgx.Row) (catalog.Order, error) {
	var o catalog.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail,
		&o.Status, &o.TotalCents, &o.CreatedAt)
	return o, err
}

func (s *Store) ListOrders(ctx context.Context, f catalog.OrderFilter) ([]catalog.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders`
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CustomerEmail != "" {
		args = append(args, f.CustomerEmail)
		conds = append(conds, fmt.Sprintf("lower(customer_email) = lower($%d)", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at, id"

	orders, err := s.queryOrders(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Store) queryOrders(ctx context.Context, q string, args ...any) ([]catalog.Order, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) attachItems(ctx context.Context, orders []catalog.Order) ([]catalog.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	idx := make(map[string]int, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		idx[o.ID] = i
		ids[i] = o.ID
	}
	rows, err := s.DB.Query(ctx, `
		SELECT order_id, COALESCE(product_id::text, ''), product_name, quantity, total_cents
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it catalog.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.TotalCents); err != nil {
			return nil, err
		}
		i := idx[orderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return orders, rows.Err()
}

func (s *Store) GetOrder(ctx context.Context, id string) (catalog.Order, error) {
	o, err := scanOrder(s.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Order{}, catalog.NewNotFound("order", id)
	}
	if err != nil {
		return catalog.Order{}, err
	}
	out, err := s.attachItems(ctx, []catalog.Order{o})
	if err != nil {
		return catalog.Order{}, err
	}
	return out[0], nil
}

func (s *Store) CreateOrder(ctx context.Context, o catalog.Order) (catalog.Order, error) {
	if o.CustomerName == "" {
		return catalog.Order{}, catalog.Invalid("customer_name", "required")
	}
	if o.Status == "" {
		o.Status = catalog.StatusPending
	}
	if !o.Status.Valid() {
		return catalog.Order{}, catalog.Invalid("status", "unknown status")
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return catalog.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o.ID = uuid.NewString()
	if o.OrderNumber == "" {
		o.OrderNumber = fmt.Sprintf("PED-%s", strings.ToUpper(o.ID[:6]))
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, customer_name, customer_email, status, total_cents)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+orderCols,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.Status, o.TotalCents)
	created, err := scanOrder(row)
	if err != nil {
		return catalog.Order{}, err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, total_cents)
			VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5)`,
			o.ID, it.ProductID, it.ProductName, it.Quantity, it.TotalCents); err != nil {
			return catalog.Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return catalog.Order{}, err
	}
	created.Items = o.Items
	return created, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, patch catalog.OrderPatch) (catalog.Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return catalog.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current catalog.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Order{}, catalog.NewNotFound("order", id)
	}
	if err != nil {
		return catalog.Order{}, err
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.CustomerName != nil {
		set("customer_name", *patch.CustomerName)
	}
	if patch.CustomerEmail != nil {
		set("customer_email", *patch.CustomerEmail)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return catalog.Order{}, catalog.Invalid("status", "unknown status")
		}
		if !catalog.CanTransition(current, *patch.Status) {
			return catalog.Order{}, catalog.Invalid("status",
				fmt.Sprintf("cannot move from %s to %s", current, *patch.Status))
		}
		set("status", *patch.Status)
	}
	if len(sets) == 0 {
		_ = tx.Rollback(ctx)
		return s.GetOrder(ctx, id)
	}
	args = append(args, id)
	o, err := scanOrder(tx.QueryRow(ctx,
		`UPDATE orders SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+orderCols,
		args...))
	if err != nil {
		return catalog.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return catalog.Order{}, err
	}
	out, err := s.attachItems(ctx, []catalog.Order{o})
	if err != nil {
		return catalog.Order{}, err
	}
	return out[0], nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.NewNotFound("order", id)
	}
	return nil
}

// ---- insights ----

func (s *Store) StockAlerts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+productCols+` FROM products
		 WHERE stock_quantity < low_stock_threshold
		 ORDER BY stock_quantity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) TopProducts(ctx context.Context, limit int) ([]catalog.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.DB.Query(ctx, `
		SELECT i.product_name, SUM(i.quantity)::int, SUM(i.total_cents)::int
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status <> 'cancelled'
		GROUP BY i.product_name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.TopProduct
	for rows.Next() {
		var tp catalog.TopProduct
		if err := rows.Scan(&tp.ProductName, &tp.Quantity, &tp.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (s *Store) SalesBetween(ctx context.Context, start, end time.Time) ([]catalog.Order, error) {
	orders, err := s.queryOrders(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE status = 'delivered' AND created_at BETWEEN $1 AND $2
		ORDER BY created_at`, start, end)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}
