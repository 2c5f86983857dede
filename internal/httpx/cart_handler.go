package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meninadelaco/storefront/internal/cart"
	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/money"
)

// CartHandler exposes the browsing session's cart. The store itself is
// wired in main, where its notification hook is also bound.
type CartHandler struct {
	Cart     *cart.Store
	Provider catalog.Provider
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.add)
	r.Put("/cart/items", h.updateQuantity)
	r.Delete("/cart/items", h.remove)
	r.Delete("/cart", h.clear)
}

type cartView struct {
	Items             []cart.Line `json:"items"`
	ItemCount         int         `json:"item_count"`
	SubtotalCents     int         `json:"subtotal_cents"`
	FormattedSubtotal string      `json:"formatted_subtotal"`
}

func (h *CartHandler) view() cartView {
	subtotal := h.Cart.SubtotalCents()
	return cartView{
		Items:             h.Cart.Items(),
		ItemCount:         h.Cart.ItemCount(),
		SubtotalCents:     subtotal,
		FormattedSubtotal: money.FormatBRL(subtotal),
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

type cartItemReq struct {
	ProductID string            `json:"product_id"`
	Variant   map[string]string `json:"variant,omitempty"`
	Quantity  int               `json:"quantity,omitempty"`
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeErr(w, catalog.Invalid("product_id", "required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Snapshot at add-time; the line never tracks later price changes.
	p, err := h.Provider.GetProduct(ctx, req.ProductID)
	if err != nil {
		writeErr(w, err)
		return
	}
	snap := cart.Snapshot{ProductID: p.ID, Name: p.Name, Price: p.PriceCents}
	for _, img := range p.Images {
		if img.Primary || snap.ImageURL == "" {
			snap.ImageURL = img.URL
		}
	}
	h.Cart.Add(snap, req.Variant)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Cart.UpdateQuantity(req.ProductID, req.Variant, req.Quantity); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	h.Cart.Remove(req.ProductID, req.Variant)
	writeJSON(w, http.StatusOK, h.view())
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.Cart.Clear()
	writeJSON(w, http.StatusOK, h.view())
}
