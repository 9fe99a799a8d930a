package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQuerier serves a fixed catalog: listings get every product, detail
// lookups match on the id or slug parameter.
type stubQuerier struct {
	products []catalog.Product
	fail     bool
}

func (s *stubQuerier) Query(_ context.Context, _ string, params map[string]any, result any) error {
	if s.fail {
		return errors.New("cms unreachable")
	}
	switch out := result.(type) {
	case *[]catalog.Product:
		*out = s.products
	case **catalog.Product:
		for _, p := range s.products {
			if p.ID == params["id"] || p.Slug.Current == params["slug"] {
				match := p
				*out = &match
				return nil
			}
		}
	}
	return nil
}

type stubCreator struct {
	fail  bool
	calls int
}

func (s *stubCreator) Create(_ context.Context, _ any) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("cms write failed")
	}
	return "order-xyz", nil
}

type testEnv struct {
	router  *gin.Engine
	creator *stubCreator
	querier *stubQuerier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys, err := auth.NewKeys("test-secret")
	require.NoError(t, err)

	querier := &stubQuerier{products: []catalog.Product{
		{ID: "p-lamp", Title: "Desk Lamp", Price: 100, Slug: catalog.Slug{Current: "desk-lamp"}},
		{ID: "p-sofa", Title: "Sofa", Price: 450, Slug: catalog.Slug{Current: "sofa"}},
	}}
	catalogConf, err := catalog.NewConf(querier)
	require.NoError(t, err)

	cartConf, err := cart.NewConf(cart.NewMemoryStore())
	require.NoError(t, err)

	creator := &stubCreator{}
	checkoutConf, err := checkout.NewConf(cartConf, creator, nil)
	require.NoError(t, err)

	router := API("/api", keys, catalogConf, cartConf, checkoutConf, nil)
	return &testEnv{router: router, creator: creator, querier: querier}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func validBillingPayload() map[string]any {
	return map[string]any{
		"firstName":     "Ada",
		"address":       "1 Main St",
		"city":          "Karachi",
		"province":      "Sindh",
		"zipCode":       "74000",
		"contact":       "0300-0000000",
		"email":         "ada@example.com",
		"paymentMethod": "cash_on_delivery",
	}
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []catalog.Product `json:"products"`
		Total    int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Products, 2)
}

func TestListProductsFailsSoft(t *testing.T) {
	env := newTestEnv(t)
	env.querier.fail = true

	w := env.do(t, http.MethodGet, "/api/products?search=lamp", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}

func TestListProductsRejectsBadMaxPrice(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/products?maxPrice=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductBySlug(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/products/desk-lamp", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var product catalog.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "p-lamp", product.ID)

	w = env.do(t, http.MethodGet, "/api/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.newSession(t)

	// Add the same product twice and a second product once.
	for _, id := range []string{"p-lamp", "p-lamp", "p-sofa"} {
		w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"product_id": id})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp cart.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 650.0, resp.SubTotal)

	// Quantity updates clamp to a minimum of one.
	w = env.do(t, http.MethodPut, "/api/cart/items/p-lamp", token, map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/cart", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Items[0].Quantity)

	// Remove one line.
	w = env.do(t, http.MethodDelete, "/api/cart/items/p-sofa", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/cart", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p-lamp", resp.Items[0].ProductID)
}

func TestAddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"product_id": "p-ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"product_id": "p-lamp"})
	require.Equal(t, http.StatusOK, w.Code)

	payload := validBillingPayload()
	delete(payload, "email")
	w = env.do(t, http.MethodPost, "/api/checkout", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		FieldErrors map[string]bool `json:"field_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]bool{"email": true}, resp.FieldErrors)
	assert.Zero(t, env.creator.calls)
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"product_id": "p-lamp"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", token, validBillingPayload())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.creator.calls)

	w = env.do(t, http.MethodGet, "/api/cart", token, nil)
	var resp cart.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestCheckoutWriteFailurePreservesCart(t *testing.T) {
	env := newTestEnv(t)
	env.creator.fail = true
	token := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"product_id": "p-lamp"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", token, validBillingPayload())
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = env.do(t, http.MethodGet, "/api/cart", token, nil)
	var resp cart.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p-lamp", resp.Items[0].ProductID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.newSession(t)

	w := env.do(t, http.MethodPost, "/api/checkout", token, validBillingPayload())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.creator.calls)
}
