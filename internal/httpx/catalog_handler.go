package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/display"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/redisx"
)

// CatalogHandler serves the public storefront reads plus the contact
// form. Redis is an optional read cache; Contact an optional producer.
type CatalogHandler struct {
	Provider catalog.Provider
	Redis    *redis.Client
	Contact  *kafkax.Producer
	Service  string
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)
	r.Get("/carousel", h.carousel)
	r.Post("/contact", h.contact)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	f := catalog.ProductFilter{
		Featured:   q.Get("featured") == "true" || q.Get("featured") == "1",
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
	}
	ps, err := h.Provider.ListProducts(ctx, f)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := make([]display.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, display.FromCatalog(p))
	}
	// An unfiltered empty catalog falls back to the legacy static list,
	// normalized through the same boundary.
	if len(out) == 0 && f == (catalog.ProductFilter{}) {
		out = display.StaticProducts()
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	p, err := h.Provider.GetProduct(ctx, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	dp := display.FromCatalog(p)
	b, _ := json.Marshal(dp)
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cs, err := h.Provider.ListCategories(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) carousel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slides, err := h.Provider.ActiveSlides(ctx, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slides)
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *CatalogHandler) contact(w http.ResponseWriter, r *http.Request) {
	var req contactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		writeErr(w, catalog.Invalid("contact", "name and message are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeErr(w, catalog.Invalid("email", "invalid address"))
		return
	}

	emit(h.Contact, h.Service, catalog.EventContactSent, req.Email,
		r.Header.Get("X-Request-Id"), catalog.ContactSentPayload{
			Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message,
		})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}
