// Package memory is the in-memory substitute for the hosted backend,
// used whenever Postgres credentials are absent. It mirrors the full
// provider contract and can simulate network latency so loading states
// stay exercisable in development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meninadelaco/storefront/internal/catalog"
)

type Store struct {
	mu      sync.Mutex
	latency time.Duration
	now     func() time.Time

	products   []catalog.Product
	categories []catalog.Category
	slides     []catalog.Slide
	orders     []catalog.Order
}

type Option func(*Store)

// WithLatency makes every operation pause before touching the data,
// simulating the hosted backend's round trip.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store pre-seeded with the demo catalog.
func New(opts ...Option) *Store {
	s := NewEmpty(opts...)
	s.seed()
	return s
}

// NewEmpty returns a store with no records.
func NewEmpty(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ---- products ----

func (s *Store) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(f.Search)
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.Featured && !p.Featured {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), nil
		}
	}
	return catalog.Product{}, catalog.NewNotFound("product", id)
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
	if err := s.wait(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	p.InStock = p.StockQuantity > 0
	s.products = append(s.products, cloneProduct(p))
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		// Validate the merged price pair before mutating anything, so a
		// rejected patch leaves the record untouched.
		price, orig := p.PriceCents, p.OriginalPriceCents
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
		if patch.SKU != nil {
			p.SKU = *patch.SKU
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.ShortDescription != nil {
			p.ShortDescription = *patch.ShortDescription
		}
		if patch.PriceCents != nil {
			p.PriceCents = *patch.PriceCents
		}
		if patch.OriginalPriceCents != nil {
			p.OriginalPriceCents = *patch.OriginalPriceCents
		}
		if patch.CategoryID != nil {
			p.CategoryID = *patch.CategoryID
		}
		if patch.Images != nil {
			p.Images = append([]catalog.ProductImage(nil), patch.Images...)
		}
		if patch.Attributes != nil {
			p.Attributes = append([]catalog.ProductAttribute(nil), patch.Attributes...)
		}
		if patch.Features != nil {
			p.Features = append([]string(nil), patch.Features...)
		}
		if patch.StockQuantity != nil {
			p.StockQuantity = *patch.StockQuantity
		}
		if patch.LowStockThreshold != nil {
			p.LowStockThreshold = *patch.LowStockThreshold
		}
		if patch.Featured != nil {
			p.Featured = *patch.Featured
		}
		p.InStock = p.StockQuantity > 0
		p.UpdatedAt = s.now().UTC()
		return cloneProduct(*p), nil
	}
	return catalog.Product{}, catalog.NewNotFound("product", id)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return catalog.NewNotFound("product", id)
}

func (s *Store) UpdateStock(ctx context.Context, id string, delta int) (catalog.StockChange, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.StockChange{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		prev := p.StockQuantity
		// No clamp: negative stock is allowed, the flag still derives
		// from the new quantity.
		p.StockQuantity = prev + delta
		p.InStock = p.StockQuantity > 0
		p.UpdatedAt = s.now().UTC()
		return catalog.StockChange{PreviousQuantity: prev, NewQuantity: p.StockQuantity}, nil
	}
	return catalog.StockChange{}, catalog.NewNotFound("product", id)
}

// ---- categories ----

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]catalog.Category(nil), s.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return catalog.Category{}, catalog.NewNotFound("category", id)
}

func (s *Store) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if c.Name == "" {
		return catalog.Category{}, catalog.Invalid("name", "required")
	}
	if err := s.wait(ctx); err != nil {
		return catalog.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	c.Slug = catalog.Slugify(c.Name)
	c.CreatedAt = s.now().UTC()
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch catalog.CategoryPatch) (catalog.Category, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		c := &s.categories[i]
		if patch.Name != nil {
			c.Name = *patch.Name
			c.Slug = catalog.Slugify(c.Name)
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.DisplayOrder != nil {
			c.DisplayOrder = *patch.DisplayOrder
		}
		if patch.Active != nil {
			c.Active = *patch.Active
		}
		return *c, nil
	}
	return catalog.Category{}, catalog.NewNotFound("category", id)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return catalog.NewNotFound("category", id)
}

// ---- carousel slides ----

func (s *Store) ListSlides(ctx context.Context) ([]catalog.Slide, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]catalog.Slide(nil), s.slides...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *Store) ActiveSlides(ctx context.Context, now time.Time) ([]catalog.Slide, error) {
	all, err := s.ListSlides(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, sl := range all {
		if sl.ActiveAt(now) {
			out = append(out, sl)
		}
	}
	return out, nil
}

func (s *Store) GetSlide(ctx context.Context, id string) (catalog.Slide, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Slide{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.slides {
		if sl.ID == id {
			return sl, nil
		}
	}
	return catalog.Slide{}, catalog.NewNotFound("slide", id)
}

func (s *Store) CreateSlide(ctx context.Context, sl catalog.Slide) (catalog.Slide, error) {
	if sl.Title == "" {
		return catalog.Slide{}, catalog.Invalid("title", "required")
	}
	if err := s.wait(ctx); err != nil {
		return catalog.Slide{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sl.ID = uuid.NewString()
	sl.CreatedAt = s.now().UTC()
	s.slides = append(s.slides, sl)
	return sl, nil
}

func (s *Store) UpdateSlide(ctx context.Context, id string, patch catalog.SlidePatch) (catalog.Slide, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Slide{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slides {
		if s.slides[i].ID != id {
			continue
		}
		sl := &s.slides[i]
		if patch.Title != nil {
			sl.Title = *patch.Title
		}
		if patch.Subtitle != nil {
			sl.Subtitle = *patch.Subtitle
		}
		if patch.ImageURL != nil {
			sl.ImageURL = *patch.ImageURL
		}
		if patch.ButtonText != nil {
			sl.ButtonText = *patch.ButtonText
		}
		if patch.ButtonLink != nil {
			sl.ButtonLink = *patch.ButtonLink
		}
		if patch.DisplayOrder != nil {
			sl.DisplayOrder = *patch.DisplayOrder
		}
		if patch.Active != nil {
			sl.Active = *patch.Active
		}
		if patch.StartsAt != nil {
			sl.StartsAt = patch.StartsAt
		}
		if patch.EndsAt != nil {
			sl.EndsAt = patch.EndsAt
		}
		return *sl, nil
	}
	return catalog.Slide{}, catalog.NewNotFound("slide", id)
}

func (s *Store) DeleteSlide(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.slides {
		if s.slides[i].ID == id {
			s.slides = append(s.slides[:i], s.slides[i+1:]...)
			return nil
		}
	}
	return catalog.NewNotFound("slide", id)
}

// ---- orders ----

func (s *Store) ListOrders(ctx context.Context, f catalog.OrderFilter) ([]catalog.Order, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CustomerEmail != "" && !strings.EqualFold(o.CustomerEmail, f.CustomerEmail) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (catalog.Order, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return catalog.Order{}, catalog.NewNotFound("order", id)
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
	if err := s.wait(ctx); err != nil {
		return catalog.Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = s.now().UTC()
	if o.OrderNumber == "" {
		o.OrderNumber = orderNumber(o.CreatedAt, len(s.orders)+1)
	}
	s.orders = append(s.orders, cloneOrder(o))
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id string, patch catalog.OrderPatch) (catalog.Order, error) {
	if err := s.wait(ctx); err != nil {
		return catalog.Order{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		o := &s.orders[i]
		if patch.CustomerName != nil {
			o.CustomerName = *patch.CustomerName
		}
		if patch.CustomerEmail != nil {
			o.CustomerEmail = *patch.CustomerEmail
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return catalog.Order{}, catalog.Invalid("status", "unknown status")
			}
			if !catalog.CanTransition(o.Status, *patch.Status) {
				return catalog.Order{}, catalog.Invalid("status",
					fmt.Sprintf("cannot move from %s to %s", o.Status, *patch.Status))
			}
			o.Status = *patch.Status
		}
		return cloneOrder(*o), nil
	}
	return catalog.Order{}, catalog.NewNotFound("order", id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return catalog.NewNotFound("order", id)
}

// ---- insights ----

func (s *Store) StockAlerts(ctx context.Context) ([]catalog.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.Product
	for _, p := range s.products {
		if p.StockQuantity < p.LowStockThreshold {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *Store) TopProducts(ctx context.Context, limit int) ([]catalog.TopProduct, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := map[string]*catalog.TopProduct{}
	var names []string
	for _, o := range s.orders {
		if o.Status == catalog.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			tp, ok := agg[it.ProductName]
			if !ok {
				tp = &catalog.TopProduct{ProductName: it.ProductName}
				agg[it.ProductName] = tp
				names = append(names, it.ProductName)
			}
			tp.Quantity += it.Quantity
			tp.TotalCents += it.TotalCents
		}
	}
	out := make([]catalog.TopProduct, 0, len(names))
	for _, n := range names {
		out = append(out, *agg[n])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SalesBetween(ctx context.Context, start, end time.Time) ([]catalog.Order, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []catalog.Order
	for _, o := range s.orders {
		if o.Status != catalog.StatusDelivered {
			continue
		}
		if o.CreatedAt.Before(start) || o.CreatedAt.After(end) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

// ---- helpers ----

func orderNumber(t time.Time, seq int) string {
	return fmt.Sprintf("PED-%s%03d", t.Format("060102"), seq)
}

func cloneProduct(p catalog.Product) catalog.Product {
	p.Images = append([]catalog.ProductImage(nil), p.Images...)
	p.Attributes = append([]catalog.ProductAttribute(nil), p.Attributes...)
	p.Features = append([]string(nil), p.Features...)
	return p
}

func cloneOrder(o catalog.Order) catalog.Order {
	o.Items = append([]catalog.OrderItem(nil), o.Items...)
	return o
}
