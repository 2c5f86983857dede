package catalog

import "time"

// All money amounts are integer cents. Formatting to a currency string
// happens at presentation time only.

type Product struct {
	ID                 string             `json:"id"`
	SKU                string             `json:"sku"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ShortDescription   string             `json:"short_description,omitempty"`
	PriceCents         int                `json:"price_cents"`
	OriginalPriceCents int                `json:"original_price_cents,omitempty"` // 0 = no pre-discount price
	CategoryID         string             `json:"category_id"`
	Images             []ProductImage     `json:"images,omitempty"`
	Attributes         []ProductAttribute `json:"attributes,omitempty"`
	Features           []string           `json:"features,omitempty"`
	StockQuantity      int                `json:"stock_quantity"`
	LowStockThreshold  int                `json:"low_stock_threshold"`
	Featured           bool               `json:"featured"`
	InStock            bool               `json:"in_stock"` // derived: StockQuantity > 0
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type ProductImage struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary,omitempty"`
}

type ProductAttribute struct {
	Type                 string `json:"type"` // color | size | material | ...
	Value                string `json:"value"`
	AdditionalPriceCents int    `json:"additional_price_cents,omitempty"`
}

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Slide struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle,omitempty"`
	ImageURL     string     `json:"image_url"`
	ButtonText   string     `json:"button_text,omitempty"`
	ButtonLink   string     `json:"button_link,omitempty"`
	DisplayOrder int        `json:"display_order"`
	Active       bool       `json:"active"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ActiveAt reports whether the slide should be shown at t: the active
// flag must be set and t must fall inside the optional date window.
func (s Slide) ActiveAt(t time.Time) bool {
	if !s.Active {
		return false
	}
	if s.StartsAt != nil && t.Before(*s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && t.After(*s.EndsAt) {
		return false
	}
	return true
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"order_number"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Status        OrderStatus `json:"status"`
	TotalCents    int         `json:"total_cents"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrderItem struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	TotalCents  int    `json:"total_cents"`
}

type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
