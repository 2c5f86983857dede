// Package postgres implements the provider contract against the hosted
// relational store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meninadelaco/storefront/internal/catalog"
)

type Store struct{ DB *pgxpool.Pool }

const productCols = `id, sku, name, description, short_description, price_cents,
	original_price_cents, COALESCE(category_id::text, ''), images, attributes, features,
	stock_quantity, low_stock_threshold, featured, in_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.ShortDescription,
		&p.PriceCents, &p.OriginalPriceCents, &p.CategoryID, &p.Images, &p.Attributes,
		&p.Features, &p.StockQuantity, &p.LowStockThreshold, &p.Featured, &p.InStock,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	var conds []string
	var args []any
	if f.Featured {
		conds = append(conds, "featured")
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at, id"

	rows, err := s.DB.Query(ctx, q, args...)
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

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, err := scanProduct(s.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, catalog.NewNotFound("product", id)
	}
	return p, err
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if p.Name == "" {
		return catalog.Product{}, catalog.Invalid("name", "required")
	}
	if p.PriceCents < 0 {
		return catalog.Product{}, catalog.Invalid("price", "must not be negative")
	}
	if p.OriginalPriceCents != 0 && p.OriginalPriceCents < p.PriceCents {
		return catalog.Product{}, catalog.Invalid("original_price", "must be at least the price")
	}
	p.ID = uuid.NewString()
	p.InStock = p.StockQuantity > 0
	if p.Images == nil {
		p.Images = []catalog.ProductImage{}
	}
	if p.Attributes == nil {
		p.Attributes = []catalog.ProductAttribute{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	row := s.DB.QueryRow(ctx, `
		INSERT INTO products (id, sku, name, description, short_description, price_cents,
			original_price_cents, category_id, images, attributes, features,
			stock_quantity, low_stock_threshold, featured, in_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,'')::uuid,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+productCols,
		p.ID, p.SKU, p.Name, p.Description, p.ShortDescription, p.PriceCents,
		p.OriginalPriceCents, p.CategoryID, p.Images, p.Attributes, p.Features,
		p.StockQuantity, p.LowStockThreshold, p.Featured, p.InStock)
	return scanProduct(row)
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, error) {
	// A patched price pair must satisfy the same rule create enforces:
	// the pre-discount price, when present, is at least the sale price.
	if patch.PriceCents != nil || patch.OriginalPriceCents != nil {
		cur, err := s.GetProduct(ctx, id)
		if err != nil {
			return catalog.Product{}, err
		}
		price, orig := cur.PriceCents, cur.OriginalPriceCents
		if patch.PriceCents != nil {
			price = *patch.PriceCents
		}
		if patch.OriginalPriceCents != nil {
			orig = *patch.OriginalPriceCents
		}
		if price < 0 {
			return catalog.Product{}, catalog.Invalid("price", "must not be negative")
		}
		if orig != 0 && orig < price {
			return catalog.Product{}, catalog.Invalid("original_price", "must be at least the price")
		}
	}

	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.SKU != nil {
		set("sku", *patch.SKU)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.ShortDescription != nil {
		set("short_description", *patch.ShortDescription)
	}
	if patch.PriceCents != nil {
		set("price_cents", *patch.PriceCents)
	}
	if patch.OriginalPriceCents != nil {
		set("original_price_cents", *patch.OriginalPriceCents)
	}
	if patch.CategoryID != nil {
		args = append(args, *patch.CategoryID)
		sets = append(sets, fmt.Sprintf("category_id = NULLIF($%d,'')::uuid", len(args)))
	}
	if patch.Images != nil {
		set("images", patch.Images)
	}
	if patch.Attributes != nil {
		set("attributes", patch.Attributes)
	}
	if patch.Features != nil {
		set("features", patch.Features)
	}
	if patch.StockQuantity != nil {
		set("stock_quantity", *patch.StockQuantity)
	}
	if patch.LowStockThreshold != nil {
		set("low_stock_threshold", *patch.LowStockThreshold)
	}
	if patch.Featured != nil {
		set("featured", *patch.Featured)
	}
	if len(sets) == 0 {
		return s.GetProduct(ctx, id)
	}
	sets = append(sets, "in_stock = stock_quantity > 0", "updated_at = now()")
	args = append(args, id)

	row := s.DB.QueryRow(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+productCols,
		args...)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, catalog.NewNotFound("product", id)
	}
	return p, err
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.NewNotFound("product", id)
	}
	return nil
}

// UpdateStock locks the row, applies the signed delta without clamping
// and re-derives in_stock, all in one transaction.
func (s *Store) UpdateStock(ctx context.Context, id string, delta int) (catalog.StockChange, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return catalog.StockChange{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var prev int
	err = tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id=$1 FOR UPDATE`, id).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.StockChange{}, catalog.NewNotFound("product", id)
	}
	if err != nil {
		return catalog.StockChange{}, err
	}

	next := prev + delta
	if _, err := tx.Exec(ctx, `
		UPDATE products SET stock_quantity = $2, in_stock = $2 > 0, updated_at = now()
		WHERE id = $1`, id, next); err != nil {
		return catalog.StockChange{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return catalog.StockChange{}, err
	}
	return catalog.StockChange{PreviousQuantity: prev, NewQuantity: next}, nil
}
