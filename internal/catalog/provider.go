package catalog

import (
	"context"
	"time"
)

// ProductFilter narrows ListProducts. Zero-valued fields are ignored;
// set fields compose with AND.
type ProductFilter struct {
	Featured   bool
	CategoryID string
	Search     string // case-insensitive substring over name + description
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	Status        OrderStatus // empty = all
	CustomerEmail string
}

// Patch structs drive shallow merges: nil fields are preserved.

type ProductPatch struct {
	SKU                *string
	Name               *string
	Description        *string
	ShortDescription   *string
	PriceCents         *int
	OriginalPriceCents *int
	CategoryID         *string
	Images             []ProductImage
	Attributes         []ProductAttribute
	Features           []string
	StockQuantity      *int
	LowStockThreshold  *int
	Featured           *bool
}

type CategoryPatch struct {
	Name         *string
	Description  *string
	DisplayOrder *int
	Active       *bool
}

type SlidePatch struct {
	Title        *string
	Subtitle     *string
	ImageURL     *string
	ButtonText   *string
	ButtonLink   *string
	DisplayOrder *int
	Active       *bool
	StartsAt     *time.Time
	EndsAt       *time.Time
}

type OrderPatch struct {
	CustomerName  *string
	CustomerEmail *string
	Status        *OrderStatus
}

// StockChange is the result of an UpdateStock call.
type StockChange struct {
	PreviousQuantity int `json:"previous_quantity"`
	NewQuantity      int `json:"new_quantity"`
}

type ProductStore interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// UpdateStock applies the signed delta in one logical step and
	// re-derives InStock. The result is not clamped: negative stock is
	// permitted and the caller validates deltas against business rules.
	UpdateStock(ctx context.Context, id string, delta int) (StockChange, error)
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type SlideStore interface {
	ListSlides(ctx context.Context) ([]Slide, error)
	ActiveSlides(ctx context.Context, now time.Time) ([]Slide, error)
	GetSlide(ctx context.Context, id string) (Slide, error)
	CreateSlide(ctx context.Context, s Slide) (Slide, error)
	UpdateSlide(ctx context.Context, id string, patch SlidePatch) (Slide, error)
	DeleteSlide(ctx context.Context, id string) error
}

type OrderStore interface {
	ListOrders(ctx context.Context, f OrderFilter) ([]Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	CreateOrder(ctx context.Context, o Order) (Order, error)
	UpdateOrder(ctx context.Context, id string, patch OrderPatch) (Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// TopProduct is an aggregated sales row for the back office.
type TopProduct struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	TotalCents  int    `json:"total_cents"`
}

type InsightsStore interface {
	// StockAlerts returns products whose stock fell below their
	// low-stock threshold.
	StockAlerts(ctx context.Context) ([]Product, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	// SalesBetween returns delivered orders created in [start, end].
	SalesBetween(ctx context.Context, start, end time.Time) ([]Order, error)
}

// Provider is the uniform data-access contract the HTTP layer and the
// stock worker consume, regardless of whether the backing store is the
// in-memory mock or Postgres.
type Provider interface {
	ProductStore
	CategoryStore
	SlideStore
	OrderStore
	InsightsStore
}
