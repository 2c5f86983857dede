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

// ---- categories ----

const categoryCols = `id, name, slug, description, display_order, active, created_at`

func scanCategory(row pgx.Row) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.DisplayOrder, &c.Active, &c.CreatedAt)
	return c, err
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+categoryCols+` FROM categories ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	c, err := scanCategory(s.DB.QueryRow(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Category{}, catalog.NewNotFound("category", id)
	}
	return c, err
}

func (s *Store) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if c.Name == "" {
		return catalog.Category{}, catalog.Invalid("name", "required")
	}
	c.ID = uuid.NewString()
	c.Slug = catalog.Slugify(c.Name)
	row := s.DB.QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, description, display_order, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+categoryCols,
		c.ID, c.Name, c.Slug, c.Description, c.DisplayOrder, c.Active)
	return scanCategory(row)
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch catalog.CategoryPatch) (catalog.Category, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
		set("slug", catalog.Slugify(*patch.Name))
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.DisplayOrder != nil {
		set("display_order", *patch.DisplayOrder)
	}
	if patch.Active != nil {
		set("active", *patch.Active)
	}
	if len(sets) == 0 {
		return s.GetCategory(ctx, id)
	}
	args = append(args, id)
	c, err := scanCategory(s.DB.QueryRow(ctx,
		`UPDATE categories SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+categoryCols,
		args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Category{}, catalog.NewNotFound("category", id)
	}
	return c, err
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.NewNotFound("category", id)
	}
	return nil
}

// ---- carousel slides ----

const slideCols = `id, title, subtitle, image_url, button_text, button_link,
	display_order, active, starts_at, ends_at, created_at`

func scanSlide(row pgx.Row) (catalog.Slide, error) {
	var sl catalog.Slide
	err := row.Scan(&sl.ID, &sl.Title, &sl.Subtitle, &sl.ImageURL, &sl.ButtonText,
		&sl.ButtonLink, &sl.DisplayOrder, &sl.Active, &sl.StartsAt, &sl.EndsAt, &sl.CreatedAt)
	return sl, err
}

func (s *Store) ListSlides(ctx context.Context) ([]catalog.Slide, error) {
	return s.querySlides(ctx,
		`SELECT `+slideCols+` FROM carousel_slides ORDER BY display_order, created_at`)
}

func (s *Store) ActiveSlides(ctx context.Context, now time.Time) ([]catalog.Slide, error) {
	return s.querySlides(ctx, `
		SELECT `+slideCols+` FROM carousel_slides
		WHERE active
		  AND (starts_at IS NULL OR starts_at <= $1)
		  AND (ends_at IS NULL OR ends_at >= $1)
		ORDER BY display_order, created_at`, now)
}

func (s *Store) querySlides(ctx context.Context, q string, args ...any) ([]catalog.Slide, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Slide
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (s *Store) GetSlide(ctx context.Context, id string) (catalog.Slide, error) {
	sl, err := scanSlide(s.DB.QueryRow(ctx,
		`SELECT `+slideCols+` FROM carousel_slides WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Slide{}, catalog.NewNotFound("slide", id)
	}
	return sl, err
}

func (s *Store) CreateSlide(ctx context.Context, sl catalog.Slide) (catalog.Slide, error) {
	if sl.Title == "" {
		return catalog.Slide{}, catalog.Invalid("title", "required")
	}
	sl.ID = uuid.NewString()
	row := s.DB.QueryRow(ctx, `
		INSERT INTO carousel_slides (id, title, subtitle, image_url, button_text,
			button_link, display_order, active, starts_at, ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+slideCols,
		sl.ID, sl.Title, sl.Subtitle, sl.ImageURL, sl.ButtonText, sl.ButtonLink,
		sl.DisplayOrder, sl.Active, sl.StartsAt, sl.EndsAt)
	return scanSlide(row)
}

func (s *Store) UpdateSlide(ctx context.Context, id string, patch catalog.SlidePatch) (catalog.Slide, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Subtitle != nil {
		set("subtitle", *patch.Subtitle)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	if patch.ButtonText != nil {
		set("button_text", *patch.ButtonText)
	}
	if patch.ButtonLink != nil {
		set("button_link", *patch.ButtonLink)
	}
	if patch.DisplayOrder != nil {
		set("display_order", *patch.DisplayOrder)
	}
	if patch.Active != nil {
		set("active", *patch.Active)
	}
	if patch.StartsAt != nil {
		set("starts_at", *patch.StartsAt)
	}
	if patch.EndsAt != nil {
		set("ends_at", *patch.EndsAt)
	}
	if len(sets) == 0 {
		return s.GetSlide(ctx, id)
	}
	args = append(args, id)
	sl, err := scanSlide(s.DB.QueryRow(ctx,
		`UPDATE carousel_slides SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+slideCols,
		args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Slide{}, catalog.NewNotFound("slide", id)
	}
	return sl, err
}

func (s *Store) DeleteSlide(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM carousel_slides WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.NewNotFound("slide", id)
	}
	return nil
}
