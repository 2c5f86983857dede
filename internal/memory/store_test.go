package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meninadelaco/storefront/internal/catalog"
)

func ptr[T any](v T) *T { return &v }

func TestListProductsFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	all, err := s.ListProducts(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "prod-laco-rosa", all[0].ID, "insertion order is preserved")

	byCat, err := s.ListProducts(ctx, catalog.ProductFilter{CategoryID: "cat-kits"})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "prod-kit-arco-iris", byCat[0].ID)

	search, err := s.ListProducts(ctx, catalog.ProductFilter{Search: "pérolas"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "prod-laco-perolas", search[0].ID)

	// Filters compose with AND.
	none, err := s.ListProducts(ctx, catalog.ProductFilter{CategoryID: "cat-kits", Search: "pérolas"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetProductNotFound(t *testing.T) {
	s := New()
	_, err := s.GetProduct(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
	var nf *catalog.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Resource)
	assert.Equal(t, "nope", nf.ID)
}

func TestCreateProductValidation(t *testing.T) {
	s := NewEmpty()
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, catalog.Product{})
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	_, err = s.CreateProduct(ctx, catalog.Product{Name: "Laço", PriceCents: -1})
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	_, err = s.CreateProduct(ctx, catalog.Product{Name: "Laço", PriceCents: 2990, OriginalPriceCents: 1000})
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	p, err := s.CreateProduct(ctx, catalog.Product{Name: "Laço", PriceCents: 2990, StockQuantity: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.InStock)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestUpdateProductShallowMerge(t *testing.T) {
	s := New()
	ctx := context.Background()

	updated, err := s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{
		Name:          ptr("Laço Rosa Renovado"),
		StockQuantity: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Laço Rosa Renovado", updated.Name)
	assert.Equal(t, 0, updated.StockQuantity)
	assert.False(t, updated.InStock, "flag re-derives from the new quantity")
	assert.Equal(t, 2990, updated.PriceCents, "untouched fields survive")
	assert.Equal(t, "LACO-001", updated.SKU)

	_, err = s.UpdateProduct(ctx, "missing", catalog.ProductPatch{Name: ptr("x")})
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestUpdateProductKeepsPriceInvariant(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Seeded: price 2990, original 3990.
	_, err := s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{OriginalPriceCents: ptr(100)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	_, err = s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{PriceCents: ptr(5000)})
	require.Error(t, err, "raising the price above the original must fail too")
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	_, err = s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{PriceCents: ptr(-1)})
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	// A rejected patch leaves the record untouched.
	p, err := s.GetProduct(ctx, "prod-laco-rosa")
	require.NoError(t, err)
	assert.Equal(t, 2990, p.PriceCents)
	assert.Equal(t, 3990, p.OriginalPriceCents)

	// Moving both sides together is fine.
	p, err = s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{
		PriceCents: ptr(4500), OriginalPriceCents: ptr(5990),
	})
	require.NoError(t, err)
	assert.Equal(t, 4500, p.PriceCents)
	assert.Equal(t, 5990, p.OriginalPriceCents)

	// Clearing the original (0 = absent) lifts the constraint.
	p, err = s.UpdateProduct(ctx, "prod-laco-rosa", catalog.ProductPatch{OriginalPriceCents: ptr(0)})
	require.NoError(t, err)
	assert.Zero(t, p.OriginalPriceCents)
}

func TestUpdateStockAllowsNegative(t *testing.T) {
	s := New()
	ctx := context.Background()

	change, err := s.UpdateStock(ctx, "prod-laco-perolas", -3)
	require.NoError(t, err)
	assert.Equal(t, 8, change.PreviousQuantity)
	assert.Equal(t, 5, change.NewQuantity)

	// Oversubscription is recorded, not clamped.
	change, err = s.UpdateStock(ctx, "prod-laco-perolas", -7)
	require.NoError(t, err)
	assert.Equal(t, -2, change.NewQuantity)

	p, err := s.GetProduct(ctx, "prod-laco-perolas")
	require.NoError(t, err)
	assert.Equal(t, -2, p.StockQuantity)
	assert.False(t, p.InStock)

	change, err = s.UpdateStock(ctx, "prod-laco-perolas", 10)
	require.NoError(t, err)
	assert.Equal(t, 8, change.NewQuantity)
	p, _ = s.GetProduct(ctx, "prod-laco-perolas")
	assert.True(t, p.InStock)
}

func TestCategorySlugDerivation(t *testing.T) {
	s := NewEmpty()
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, catalog.Category{Name: "Laços Personalizados", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "lacos-personalizados", c.Slug)

	c, err = s.UpdateCategory(ctx, c.ID, catalog.CategoryPatch{Name: ptr("Edição Limitada")})
	require.NoError(t, err)
	assert.Equal(t, "edicao-limitada", c.Slug)
}

func TestActiveSlidesWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := NewEmpty(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	past := now.Add(-48 * time.Hour)
	soon := now.Add(24 * time.Hour)

	_, err := s.CreateSlide(ctx, catalog.Slide{Title: "Sempre ativo", Active: true, DisplayOrder: 2})
	require.NoError(t, err)
	_, err = s.CreateSlide(ctx, catalog.Slide{Title: "Expirado", Active: true, EndsAt: &past, DisplayOrder: 1})
	require.NoError(t, err)
	_, err = s.CreateSlide(ctx, catalog.Slide{Title: "Futuro", Active: true, StartsAt: &soon, DisplayOrder: 3})
	require.NoError(t, err)
	_, err = s.CreateSlide(ctx, catalog.Slide{Title: "Desligado", Active: false, DisplayOrder: 0})
	require.NoError(t, err)

	active, err := s.ActiveSlides(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Sempre ativo", active[0].Title)
}

func TestOrderStatusTransitions(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.UpdateOrder(ctx, "order-1", catalog.OrderPatch{Status: ptr(catalog.StatusShipped)})
	require.Error(t, err, "pending cannot jump to shipped")
	assert.True(t, errors.Is(err, catalog.ErrValidation))

	o, err := s.UpdateOrder(ctx, "order-1", catalog.OrderPatch{Status: ptr(catalog.StatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPaid, o.Status)

	_, err = s.UpdateOrder(ctx, "order-2", catalog.OrderPatch{Status: ptr(catalog.StatusPending)})
	require.Error(t, err, "delivered is terminal")
}

func TestCreateOrderDefaultsAndNumber(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := NewEmpty(WithClock(func() time.Time { return now }))

	o, err := s.CreateOrder(context.Background(), catalog.Order{
		CustomerName: "Maria Silva",
		Items:        []catalog.OrderItem{{ProductName: "Laço", Quantity: 1, TotalCents: 2990}},
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPending, o.Status)
	assert.Equal(t, "PED-260901001", o.OrderNumber)
}

func TestInsights(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Push one product below its threshold.
	_, err := s.UpdateStock(ctx, "prod-laco-rosa", -12) // 15 -> 3, threshold 5
	require.NoError(t, err)

	alerts, err := s.StockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "prod-laco-rosa", alerts[0].ID)

	tops, err := s.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "Laço de Seda Premium Rosa", tops[0].ProductName)
	assert.Equal(t, 2, tops[0].Quantity)

	sales, err := s.SalesBetween(ctx, time.Now().Add(-48*time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "PED-002", sales[0].OrderNumber, "only delivered orders count")
}

func TestLatencyRespectsContext(t *testing.T) {
	s := New(WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ListProducts(ctx, catalog.ProductFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
