package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/meninadelaco/storefront/internal/auth"
	"github.com/meninadelaco/storefront/internal/catalog"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/redisx"
)

// AdminHandler is the back office: CRUD over the provider-owned
// resources, stock adjustments, and insights. Everything is behind the
// admin gate.
type AdminHandler struct {
	Provider catalog.Provider
	Auth     auth.Service
	Redis    *redis.Client

	OrderPlaced  *kafkax.Producer
	StockChanged *kafkax.Producer
	StockLow     *kafkax.Producer
	Service      string
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(h.Auth))

		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Post("/products/{id}/stock", h.updateStock)

		r.Get("/categories", h.listCategories)
		r.Post("/categories", h.createCategory)
		r.Put("/categories/{id}", h.updateCategory)
		r.Delete("/categories/{id}", h.deleteCategory)

		r.Get("/carousel", h.listSlides)
		r.Post("/carousel", h.createSlide)
		r.Put("/carousel/{id}", h.updateSlide)
		r.Delete("/carousel/{id}", h.deleteSlide)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders", h.createOrder)
		r.Put("/orders/{id}", h.updateOrder)
		r.Delete("/orders/{id}", h.deleteOrder)

		r.Get("/insights/stock-alerts", h.stockAlerts)
		r.Get("/insights/top-products", h.topProducts)
		r.Get("/insights/sales", h.sales)
	})
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func (h *AdminHandler) invalidateProduct(ctx context.Context, id string) {
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err()
	}
}

// ---- products ----

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	ps, err := h.Provider.ListProducts(ctx, catalog.ProductFilter{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

type productReq struct {
	SKU                string                     `json:"sku"`
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	ShortDescription   string                     `json:"short_description"`
	PriceCents         int                        `json:"price_cents"`
	OriginalPriceCents int                        `json:"original_price_cents"`
	CategoryID         string                     `json:"category_id"`
	Images             []catalog.ProductImage     `json:"images"`
	Attributes         []catalog.ProductAttribute `json:"attributes"`
	Features           []string                   `json:"features"`
	StockQuantity      int                        `json:"stock_quantity"`
	LowStockThreshold  int                        `json:"low_stock_threshold"`
	Featured           bool                       `json:"featured"`
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	p, err := h.Provider.CreateProduct(ctx, catalog.Product{
		SKU: req.SKU, Name: req.Name,
		Description: req.Description, ShortDescription: req.ShortDescription,
		PriceCents: req.PriceCents, OriginalPriceCents: req.OriginalPriceCents,
		CategoryID: req.CategoryID, Images: req.Images, Attributes: req.Attributes,
		Features: req.Features, StockQuantity: req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold, Featured: req.Featured,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type productPatchReq struct {
	SKU                *string                    `json:"sku"`
	Name               *string                    `json:"name"`
	Description        *string                    `json:"description"`
	ShortDescription   *string                    `json:"short_description"`
	PriceCents         *int                       `json:"price_cents"`
	OriginalPriceCents *int                       `json:"original_price_cents"`
	CategoryID         *string                    `json:"category_id"`
	Images             []catalog.ProductImage     `json:"images"`
	Attributes         []catalog.ProductAttribute `json:"attributes"`
	Features           []string                   `json:"features"`
	StockQuantity      *int                       `json:"stock_quantity"`
	LowStockThreshold  *int                       `json:"low_stock_threshold"`
	Featured           *bool                      `json:"featured"`
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req productPatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	p, err := h.Provider.UpdateProduct(ctx, id, catalog.ProductPatch{
		SKU: req.SKU, Name: req.Name,
		Description: req.Description, ShortDescription: req.ShortDescription,
		PriceCents: req.PriceCents, OriginalPriceCents: req.OriginalPriceCents,
		CategoryID: req.CategoryID, Images: req.Images, Attributes: req.Attributes,
		Features: req.Features, StockQuantity: req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold, Featured: req.Featured,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateProduct(ctx, id)
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Provider.DeleteProduct(ctx, id); err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateProduct(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

type stockReq struct {
	Delta int `json:"delta"`
}

func (h *AdminHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req stockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Delta == 0 {
		writeErr(w, catalog.Invalid("delta", "must not be zero"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	change, err := h.Provider.UpdateStock(ctx, id, req.Delta)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.invalidateProduct(ctx, id)

	trace := r.Header.Get("X-Request-Id")
	emit(h.StockChanged, h.Service, catalog.EventStockChanged, id, trace,
		catalog.StockChangedPayload{
			ProductID:        id,
			PreviousQuantity: change.PreviousQuantity,
			NewQuantity:      change.NewQuantity,
			InStock:          change.NewQuantity > 0,
		})
	h.alertIfLow(ctx, id, change, trace)
	writeJSON(w, http.StatusOK, change)
}

func (h *AdminHandler) alertIfLow(ctx context.Context, id string, change catalog.StockChange, trace string) {
	if h.StockLow == nil {
		return
	}
	p, err := h.Provider.GetProduct(ctx, id)
	if err != nil || change.NewQuantity >= p.LowStockThreshold {
		return
	}
	emit(h.StockLow, h.Service, catalog.EventStockLow, id, trace, catalog.StockLowPayload{
		ProductID: id, Name: p.Name,
		Quantity: change.NewQuantity, Threshold: p.LowStockThreshold,
	})
}

// ---- categories ----

func (h *AdminHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	cs, err := h.Provider.ListCategories(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

type categoryReq struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

func (h *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Provider.CreateCategory(ctx, catalog.Category{
		Name: req.Name, Description: req.Description,
		DisplayOrder: req.DisplayOrder, Active: req.Active,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type categoryPatchReq struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
	Active       *bool   `json:"active"`
}

func (h *AdminHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req categoryPatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Provider.UpdateCategory(ctx, id, catalog.CategoryPatch{
		Name: req.Name, Description: req.Description,
		DisplayOrder: req.DisplayOrder, Active: req.Active,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Provider.DeleteCategory(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- carousel ----

func (h *AdminHandler) listSlides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	slides, err := h.Provider.ListSlides(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slides)
}

type slideReq struct {
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	ImageURL     string     `json:"image_url"`
	ButtonText   string     `json:"button_text"`
	ButtonLink   string     `json:"button_link"`
	DisplayOrder int        `json:"display_order"`
	Active       bool       `json:"active"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

func (h *AdminHandler) createSlide(w http.ResponseWriter, r *http.Request) {
	var req slideReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	sl, err := h.Provider.CreateSlide(ctx, catalog.Slide{
		Title: req.Title, Subtitle: req.Subtitle, ImageURL: req.ImageURL,
		ButtonText: req.ButtonText, ButtonLink: req.ButtonLink,
		DisplayOrder: req.DisplayOrder, Active: req.Active,
		StartsAt: req.StartsAt, EndsAt: req.EndsAt,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sl)
}

type slidePatchReq struct {
	Title        *string    `json:"title"`
	Subtitle     *string    `json:"subtitle"`
	ImageURL     *string    `json:"image_url"`
	ButtonText   *string    `json:"button_text"`
	ButtonLink   *string    `json:"button_link"`
	DisplayOrder *int       `json:"display_order"`
	Active       *bool      `json:"active"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

func (h *AdminHandler) updateSlide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req slidePatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	sl, err := h.Provider.UpdateSlide(ctx, id, catalog.SlidePatch{
		Title: req.Title, Subtitle: req.Subtitle, ImageURL: req.ImageURL,
		ButtonText: req.ButtonText, ButtonLink: req.ButtonLink,
		DisplayOrder: req.DisplayOrder, Active: req.Active,
		StartsAt: req.StartsAt, EndsAt: req.EndsAt,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (h *AdminHandler) deleteSlide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Provider.DeleteSlide(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- orders ----

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	q := r.URL.Query()
	f := catalog.OrderFilter{CustomerEmail: q.Get("email")}
	if s := q.Get("status"); s != "" && s != "all" {
		f.Status = catalog.OrderStatus(s)
	}
	orders, err := h.Provider.ListOrders(ctx, f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Provider.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type orderReq struct {
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Status        catalog.OrderStatus `json:"status"`
	Items         []catalog.OrderItem `json:"items"`
}

func (h *AdminHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	total := 0
	for _, it := range req.Items {
		if it.Quantity < 1 {
			writeErr(w, catalog.Invalid("items", "quantity must be at least 1"))
			return
		}
		total += it.TotalCents
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Provider.CreateOrder(ctx, catalog.Order{
		CustomerName: req.CustomerName, CustomerEmail: req.CustomerEmail,
		Status: req.Status, TotalCents: total, Items: req.Items,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	items := make([]catalog.OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID != "" {
			items = append(items, catalog.OrderPlacedItem{ProductID: it.ProductID, Qty: it.Quantity})
		}
	}
	emit(h.OrderPlaced, h.Service, catalog.EventOrderPlaced, o.ID,
		r.Header.Get("X-Request-Id"), catalog.OrderPlacedPayload{
			OrderID: o.ID, OrderNumber: o.OrderNumber,
			Items: items, TotalCents: o.TotalCents,
		})
	writeJSON(w, http.StatusCreated, o)
}

type orderPatchReq struct {
	CustomerName  *string              `json:"customer_name"`
	CustomerEmail *string              `json:"customer_email"`
	Status        *catalog.OrderStatus `json:"status"`
}

func (h *AdminHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req orderPatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Provider.UpdateOrder(ctx, id, catalog.OrderPatch{
		CustomerName: req.CustomerName, CustomerEmail: req.CustomerEmail,
		Status: req.Status,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Provider.DeleteOrder(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- insights ----

func (h *AdminHandler) stockAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	ps, err := h.Provider.StockAlerts(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *AdminHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tops, err := h.Provider.TopProducts(ctx, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tops)
}

func (h *AdminHandler) sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeErr(w, catalog.Invalid("start", "must be RFC3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		writeErr(w, catalog.Invalid("end", "must be RFC3339"))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	orders, err := h.Provider.SalesBetween(ctx, start, end)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
