package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meninadelaco/storefront/internal/auth"
	"github.com/meninadelaco/storefront/internal/cart"
	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/display"
	"github.com/meninadelaco/storefront/internal/memory"
)

type harness struct {
	router *chi.Mux
	store  *memory.Store
	svc    *auth.Mock
	basket *cart.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	svc := auth.NewMock("test-secret", time.Hour, auth.NewMemoryCache())
	require.NoError(t, svc.Register(catalog.User{Email: "admin@meninadelaco.com", IsAdmin: true}, "admin123"))
	require.NoError(t, svc.Register(catalog.User{Email: "cliente@example.com"}, "cliente123"))
	basket := cart.New()

	r := NewRouter()
	(&CatalogHandler{Provider: store, Service: "test"}).Register(r)
	(&CartHandler{Cart: basket, Provider: store}).Register(r)
	(&AuthHandler{Auth: svc}).Register(r)
	(&AdminHandler{Provider: store, Auth: svc, Service: "test"}).Register(r)
	return &harness{router: r, store: store, svc: svc, basket: basket}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	sess, err := h.svc.SignIn(context.Background(), "admin@meninadelaco.com", "admin123")
	require.NoError(t, err)
	return sess.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ---- storefront ----

func TestListProducts(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ps := decode[[]display.Product](t, rec)
	require.Len(t, ps, 3)
	assert.Equal(t, "prod-laco-rosa", ps[0].ID)
	assert.Equal(t, "R$ 29,90", ps[0].FormattedPrice)
	assert.Equal(t, 25, ps[0].DiscountPercent)
}

func TestListProductsFallsBackToStaticCatalog(t *testing.T) {
	h := newHarness(t)
	h.store = memory.NewEmpty()
	r := NewRouter()
	(&CatalogHandler{Provider: h.store, Service: "test"}).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decode[[]display.Product](t, rec)
	assert.NotEmpty(t, ps, "empty unfiltered catalog serves the legacy list")

	// A filtered query stays empty: the fallback is for the bare list only.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?search=laco", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]display.Product](t, rec))
}

func TestGetProductNotFound(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCarousel(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/carousel", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slides := decode[[]catalog.Slide](t, rec)
	require.Len(t, slides, 2)
	assert.Equal(t, "Laços Encantadores", slides[0].Title)
}

func TestContactValidation(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "Maria", "email": "not-an-email", "message": "Olá",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "", "email": "maria@email.com", "message": "Olá",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "Maria", "email": "maria@email.com", "message": "Olá",
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

// ---- cart ----

func TestCartFlow(t *testing.T) {
	h := newHarness(t)

	add := map[string]any{"product_id": "prod-laco-rosa"}
	rec := h.do(t, http.MethodPost, "/cart/items", "", add)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(t, http.MethodPost, "/cart/items", "", add)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), view["item_count"])
	assert.Equal(t, float64(2*2990), view["subtotal_cents"])
	assert.Equal(t, "R$ 59,80", view["formatted_subtotal"])

	rec = h.do(t, http.MethodPut, "/cart/items", "", map[string]any{
		"product_id": "prod-laco-rosa", "quantity": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[map[string]any](t, rec)
	assert.Equal(t, float64(5), view["item_count"])

	rec = h.do(t, http.MethodPut, "/cart/items", "", map[string]any{
		"product_id": "prod-laco-rosa", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodDelete, "/cart/items", "", map[string]any{
		"product_id": "prod-laco-rosa",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[map[string]any](t, rec)
	assert.Equal(t, float64(0), view["item_count"])
}

func TestCartAddUnknownProduct(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/cart/items", "", map[string]any{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- auth ----

func TestAdminLogin(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth/admin/login", "", map[string]string{
		"email": "admin@meninadelaco.com", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sess := decode[auth.Session](t, rec)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.User.IsAdmin)
}

func TestAdminLoginRejectsCustomerAndRevokesSession(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/auth/admin/login", "", map[string]string{
		"email": "cliente@example.com", "password": "cliente123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	u, err := h.svc.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, u, "the brief session must not survive")
}

func TestLoginBadPassword(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "cliente@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	token := h.adminToken(t)
	rec = h.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		User *catalog.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.User)
	assert.True(t, out.User.IsAdmin)
}

// ---- admin ----

func TestAdminRoutesRequireAuth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	rec := h.do(t, http.MethodPost, "/admin/products", token, map[string]any{
		"name": "Laço Festa Junina", "price_cents": 1990,
		"category_id": "cat-personalizados", "stock_quantity": 10,
		"low_stock_threshold": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[catalog.Product](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.InStock)

	rec = h.do(t, http.MethodPut, "/admin/products/"+created.ID, token, map[string]any{
		"price_cents": 1490,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decode[catalog.Product](t, rec)
	assert.Equal(t, 1490, patched.PriceCents)
	assert.Equal(t, "Laço Festa Junina", patched.Name, "untouched fields survive the patch")

	rec = h.do(t, http.MethodDelete, "/admin/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(t, http.MethodDelete, "/admin/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdateRejectsInvertedPricePair(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	// Seeded product sells at 2990 with original 3990; an original below
	// the sale price must not get through the patch path.
	rec := h.do(t, http.MethodPut, "/admin/products/prod-laco-rosa", token, map[string]any{
		"original_price_cents": 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/products/prod-laco-rosa", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[display.Product](t, rec)
	assert.Equal(t, 3990, p.OriginalPriceCents)
	assert.Equal(t, 25, p.DiscountPercent)
}

func TestAdminStockAdjustment(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	rec := h.do(t, http.MethodPost, "/admin/products/prod-laco-rosa/stock", token, map[string]int{"delta": -20})
	require.Equal(t, http.StatusOK, rec.Code)
	change := decode[catalog.StockChange](t, rec)
	assert.Equal(t, 15, change.PreviousQuantity)
	assert.Equal(t, -5, change.NewQuantity)

	rec = h.do(t, http.MethodPost, "/admin/products/prod-laco-rosa/stock", token, map[string]int{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminOrderStatus(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	rec := h.do(t, http.MethodPut, "/admin/orders/order-1", token, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pending cannot jump to shipped")

	rec = h.do(t, http.MethodPut, "/admin/orders/order-1", token, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.StatusPaid, decode[catalog.Order](t, rec).Status)
}

func TestAdminCreateOrderTotalsItems(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	rec := h.do(t, http.MethodPost, "/admin/orders", token, map[string]any{
		"customer_name":  "Maria Silva",
		"customer_email": "maria@email.com",
		"items": []map[string]any{
			{"product_id": "prod-laco-rosa", "product_name": "Laço Rosa", "quantity": 2, "total_cents": 5980},
			{"product_name": "Embrulho", "quantity": 1, "total_cents": 500},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[catalog.Order](t, rec)
	assert.Equal(t, 6480, o.TotalCents)
	assert.Equal(t, catalog.StatusPending, o.Status)
	assert.NotEmpty(t, o.OrderNumber)
}

func TestAdminInsights(t *testing.T) {
	h := newHarness(t)
	token := h.adminToken(t)

	rec := h.do(t, http.MethodGet, "/admin/insights/stock-alerts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/admin/insights/top-products?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tops := decode[[]catalog.TopProduct](t, rec)
	assert.NotEmpty(t, tops)

	rec = h.do(t, http.MethodGet, "/admin/insights/sales", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "window bounds are required")

	start := time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Format(time.RFC3339)
	rec = h.do(t, http.MethodGet, fmt.Sprintf("/admin/insights/sales?start=%s&end=%s", start, end), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sales := decode[[]catalog.Order](t, rec)
	require.Len(t, sales, 1)
	assert.Equal(t, "PED-002", sales[0].OrderNumber)
}
