package entity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/snack-shack/internal/domain/checkout"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestCurrentUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/users/me", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"sam@example.com","full_name":"Sam","role":"admin"}`))
	})

	u, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.IsAdmin())
}

func TestCurrentUser_NoSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.CurrentUser(context.Background())
		require.ErrorIs(t, err, ErrNoSession, "status %d", status)
	}
}

func TestIsAdmin_NilAndNonAdmin(t *testing.T) {
	var u *User
	assert.False(t, u.IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "-created_date", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p2","name":"Trail Mix","price":4.00,"stock":5},
			{"id":"p1","name":"Pretzels","price":2.50,"stock":0}
		]`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p2", products[0].ID)
	assert.True(t, decimal.RequireFromString("4.00").Equal(products[0].Price))
	assert.Equal(t, 0, products[1].Stock, "out-of-stock items pass through unfiltered")
}

func TestListProducts_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestUpdateProductStock(t *testing.T) {
	var gotBody map[string]int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateProductStock(context.Background(), "p1", 17)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"stock": 17}, gotBody)
}

func TestCreateOrder(t *testing.T) {
	var got struct {
		Items []struct {
			ProductID string          `json:"product_id"`
			Name      string          `json:"name"`
			Price     decimal.Decimal `json:"price"`
			Quantity  int             `json:"quantity"`
		} `json:"items"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.CreateOrder(context.Background(), checkout.Order{
		Items: []checkout.OrderItem{
			{ProductID: "p1", Name: "Pretzels", Price: decimal.RequireFromString("2.50"), Quantity: 3},
			{ProductID: "p2", Name: "Gum", Price: decimal.RequireFromString("1.00"), Quantity: 2},
		},
		TotalAmount: decimal.RequireFromString("9.50"),
	})

	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.True(t, decimal.RequireFromString("2.50").Equal(got.Items[0].Price))
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.True(t, decimal.RequireFromString("9.50").Equal(got.TotalAmount))
}

func TestPing(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound) // no health route is still reachable
		})
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Error(t, client.Ping(context.Background()))
	})
}
