package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tillworks/tillpoint/internal/testdb"
	"github.com/tillworks/tillpoint/pkg/router"
)

type client struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()

	r := router.New()
	RegisterAPI(r, testdb.Open(t))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	c := &client{t: t, srv: srv}

	resp := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "cashier",
		"email":    "cashier@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	resp = c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"username": "cashier",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	c.token = tokens.AccessToken

	return c
}

func (c *client) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type entity struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	TotalAmount float64 `json:"total_amount"`
	Detail      string  `json:"detail"`
	Type        string  `json:"type"`
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	c := newClient(t)
	c.token = ""

	resp := c.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body entity
	decode(t, resp, &body)
	assert.Equal(t, "authentication_error", body.Type)
}

func TestAuthMe(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user struct {
		Username string `json:"username"`
		Password string `json:"hashed_password"`
	}
	decode(t, resp, &user)
	assert.Equal(t, "cashier", user.Username)
	assert.Empty(t, user.Password) // never serialized
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products", map[string]any{
		"name":           "Espresso",
		"price":          3.50,
		"barcode":        "1000000000017",
		"stock_quantity": 25,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product entity
	decode(t, resp, &product)
	require.NotZero(t, product.ID)

	resp = c.do(http.MethodGet, "/api/products/barcode/1000000000017", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/products/barcode/0000000000000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// delete deactivates, so the scan lookup stops finding it
	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/products/barcode/1000000000017", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProductValidationOverHTTP(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products", map[string]any{
		"price": 3.50, // name missing
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, resp, &body)
	assert.Contains(t, body.Errors, "name")
}

func TestCategoryRoutesLiveUnderProducts(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products/categories", map[string]any{"name": "Beverages"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category entity
	decode(t, resp, &category)
	require.NotZero(t, category.ID)

	resp = c.do(http.MethodGet, fmt.Sprintf("/api/products/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/products/categories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The nested static segment must not shadow product lookups.
	resp = c.do(http.MethodPost, "/api/products", map[string]any{
		"name":        "Espresso",
		"price":       3.50,
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product entity
	decode(t, resp, &product)

	resp = c.do(http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCategoryDeleteGuardOverHTTP(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products/categories", map[string]any{"name": "Beverages"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category entity
	decode(t, resp, &category)

	resp = c.do(http.MethodPost, "/api/products", map[string]any{
		"name":        "Espresso",
		"price":       3.50,
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/products/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body entity
	decode(t, resp, &body)
	assert.Equal(t, "Cannot delete category with existing products", body.Detail)
}

func TestOrderFlowOverHTTP(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products", map[string]any{
		"name":           "Widget",
		"price":          12.50,
		"stock_quantity": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product entity
	decode(t, resp, &product)

	resp = c.do(http.MethodPost, "/api/orders", map[string]any{
		"discount_amount": 1.00,
		"items": []map[string]any{
			{"product_id": product.ID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order entity
	decode(t, resp, &order)
	assert.Equal(t, 25.00, order.Subtotal)
	assert.Equal(t, 2.00, order.TaxAmount)
	assert.Equal(t, 26.00, order.TotalAmount)
	assert.Equal(t, "pending", order.Status)

	resp = c.do(http.MethodGet, "/api/orders/number/"+order.OrderNumber, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/complete", order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", order.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body entity
	decode(t, resp, &body)
	assert.Equal(t, "invalid_status_transition", body.Type)
	assert.Equal(t, "Cannot cancel order with status: completed", body.Detail)
}

func TestOrderInsufficientStockOverHTTP(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/products", map[string]any{
		"name":           "Scarce",
		"price":          5.00,
		"stock_quantity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product entity
	decode(t, resp, &product)

	resp = c.do(http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{
			{"product_id": product.ID, "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body entity
	decode(t, resp, &body)
	assert.Equal(t, "insufficient_stock", body.Type)
	assert.Equal(t, "Insufficient stock for product Scarce. Available: 1, Requested: 5", body.Detail)
}

func TestOrderMissingProductMapsTo400(t *testing.T) {
	c := newClient(t)

	resp := c.do(http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{
			{"product_id": 999, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body entity
	decode(t, resp, &body)
	assert.Equal(t, "not_found", body.Type)
}
