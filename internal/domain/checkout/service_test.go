package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/snack-shack/internal/domain/cart"
)

// --- Mock implementations ---

type stockCall struct {
	productID string
	stock     int
}

type mockStore struct {
	orders      []Order
	stockCalls  []stockCall
	createErr   error
	updateErr   map[string]error // productID -> error
	callSeq     []string         // "order" / "stock:<id>" in invocation order
}

func (m *mockStore) CreateOrder(_ context.Context, o Order) error {
	m.callSeq = append(m.callSeq, "order")
	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *mockStore) UpdateProductStock(_ context.Context, productID string, stock int) error {
	m.callSeq = append(m.callSeq, "stock:"+productID)
	if err := m.updateErr[productID]; err != nil {
		return err
	}
	m.stockCalls = append(m.stockCalls, stockCall{productID: productID, stock: stock})
	return nil
}

// --- Helpers ---

func line(id, name, price string, stock, qty int) cart.Line {
	return cart.Line{
		Snapshot: cart.Snapshot{
			ProductID: id,
			Name:      name,
			Price:     decimal.RequireFromString(price),
			Stock:     stock,
		},
		Quantity: qty,
	}
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	err := svc.Checkout(context.Background(), nil)

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.callSeq)
}

func TestCheckout_SubmitsOrderThenUpdatesStockInCartOrder(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	lines := []cart.Line{
		line("p1", "Pretzels", "2.50", 20, 3),
		line("p2", "Gum", "1.00", 50, 2),
	}

	err := svc.Checkout(context.Background(), lines)
	require.NoError(t, err)

	require.Len(t, store.orders, 1)
	o := store.orders[0]
	assert.True(t, decimal.RequireFromString("9.50").Equal(o.TotalAmount))
	require.Len(t, o.Items, 2)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.Equal(t, "Pretzels", o.Items[0].Name)
	assert.True(t, decimal.RequireFromString("2.50").Equal(o.Items[0].Price))
	assert.Equal(t, 3, o.Items[0].Quantity)

	// One stock update per line, after the order, in cart insertion order.
	assert.Equal(t, []string{"order", "stock:p1", "stock:p2"}, store.callSeq)
	assert.Equal(t, []stockCall{
		{productID: "p1", stock: 17},
		{productID: "p2", stock: 48},
	}, store.stockCalls)
}

func TestCheckout_StockComputedFromSnapshot(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store)

	// Captured stock 5, quantity 5: the update drives remote stock to zero
	// regardless of what the store holds now.
	err := svc.Checkout(context.Background(), []cart.Line{
		line("p1", "Cookies", "3.25", 5, 5),
	})

	require.NoError(t, err)
	assert.Equal(t, []stockCall{{productID: "p1", stock: 0}}, store.stockCalls)
}

func TestCheckout_OrderCreateFailure_NoStockUpdates(t *testing.T) {
	store := &mockStore{createErr: errors.New("upstream unavailable")}
	svc := NewService(store)

	err := svc.Checkout(context.Background(), []cart.Line{
		line("p1", "Pretzels", "2.50", 20, 1),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
	assert.Equal(t, []string{"order"}, store.callSeq, "no stock update after a failed create")
}

func TestCheckout_PartialStockFailureStops(t *testing.T) {
	store := &mockStore{
		updateErr: map[string]error{"p2": errors.New("conflict")},
	}
	svc := NewService(store)

	err := svc.Checkout(context.Background(), []cart.Line{
		line("p1", "Pretzels", "2.50", 20, 1),
		line("p2", "Gum", "1.00", 50, 1),
		line("p3", "Cookies", "3.25", 8, 1),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "p2")
	// p1 stays decremented, p3 is never attempted. No rollback.
	assert.Equal(t, []string{"order", "stock:p1", "stock:p2"}, store.callSeq)
	assert.Equal(t, []stockCall{{productID: "p1", stock: 19}}, store.stockCalls)
}
