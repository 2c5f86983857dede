package catalog

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced  = "OrderPlaced"
	EventStockChanged = "StockChanged"
	EventStockLow     = "StockLow"
	EventCartItemAdd  = "CartItemAdded"
	EventCartItemDrop = "CartItemRemoved"
	EventContactSent  = "ContactMessageSent"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Items       []OrderPlacedItem `json:"items"`
	TotalCents  int               `json:"total_cents"`
}

type StockChangedPayload struct {
	ProductID        string `json:"product_id"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	InStock          bool   `json:"in_stock"`
}

type StockLowPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

type CartItemPayload struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Variant   map[string]string `json:"variant,omitempty"`
	Quantity  int               `json:"quantity"`
}

type ContactSentPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
