// Package cart holds the browsing session's shopping cart: an ordered
// list of line items mutated through a closed set of transitions, with
// totals derived on demand.
package cart

import (
	"sort"
	"strings"
	"sync"

	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/money"
)

// Snapshot is the product data captured at add-time. Price keeps the
// representation the source handed us (number or legacy currency
// string); it is parsed only when totals are computed.
type Snapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     any    `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

type Line struct {
	Snapshot
	Variant  map[string]string `json:"variant,omitempty"`
	Quantity int               `json:"quantity"`
}

// UnitPriceCents parses the captured price. A representation that is
// not a valid amount counts as zero so totals stay computable.
func (l Line) UnitPriceCents() int {
	cents, _ := money.ParseCents(l.Price)
	return cents
}

type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
)

type Event struct {
	Type EventType
	Line Line
}

// Store applies the four cart transitions sequentially. An internal
// mutex serializes callers; transitions never suspend.
type Store struct {
	mu      sync.Mutex
	items   []Line
	onEvent func(Event)
}

func New() *Store { return &Store{} }

// Notify registers the hook fired after each successful Add/Remove.
// The view layer binds its toast (or an event publisher) here; the
// store itself renders nothing.
func (s *Store) Notify(fn func(Event)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

// Add merges into an existing line when product id + variant match,
// incrementing its quantity by one; otherwise it appends a fresh line
// with quantity 1.
func (s *Store) Add(snap Snapshot, variant map[string]string) {
	s.mu.Lock()
	key := lineKey(snap.ProductID, variant)
	var line Line
	found := false
	for i := range s.items {
		if lineKey(s.items[i].ProductID, s.items[i].Variant) == key {
			s.items[i].Quantity++
			line = s.items[i]
			found = true
			break
		}
	}
	if !found {
		line = Line{Snapshot: snap, Variant: cloneVariant(variant), Quantity: 1}
		s.items = append(s.items, line)
	}
	fn := s.onEvent
	s.mu.Unlock()

	if fn != nil {
		fn(Event{Type: EventAdded, Line: line})
	}
}

// Remove deletes the matching line entirely, regardless of quantity.
// No-op when the line is absent.
func (s *Store) Remove(productID string, variant map[string]string) {
	s.mu.Lock()
	key := lineKey(productID, variant)
	var removed Line
	found := false
	for i := range s.items {
		if lineKey(s.items[i].ProductID, s.items[i].Variant) == key {
			removed = s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	fn := s.onEvent
	s.mu.Unlock()

	if found && fn != nil {
		fn(Event{Type: EventRemoved, Line: removed})
	}
}

// UpdateQuantity replaces the matching line's quantity. Quantities
// below 1 are rejected and leave the state unchanged; removal is an
// explicit separate operation.
func (s *Store) UpdateQuantity(productID string, variant map[string]string, qty int) error {
	if qty < 1 {
		return catalog.Invalid("quantity", "must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := lineKey(productID, variant)
	for i := range s.items {
		if lineKey(s.items[i].ProductID, s.items[i].Variant) == key {
			s.items[i].Quantity = qty
			return nil
		}
	}
	return catalog.NewNotFound("cart line", productID)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.items {
		n += l.Quantity
	}
	return n
}

func (s *Store) SubtotalCents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.items {
		total += l.UnitPriceCents() * l.Quantity
	}
	return total
}

// lineKey is the dedup identity: product id plus the canonicalized
// variant selection.
func lineKey(productID string, variant map[string]string) string {
	if len(variant) == 0 {
		return productID
	}
	keys := make([]string, 0, len(variant))
	for k := range variant {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(productID)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(variant[k])
	}
	return b.String()
}

func cloneVariant(v map[string]string) map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
