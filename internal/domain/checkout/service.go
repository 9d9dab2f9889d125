// Package checkout converts a cart into a submitted order plus remote stock
// decrements.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/snack-shack/internal/domain/cart"
)

// ErrEmptyCart is returned when checkout is attempted with no lines. The
// cart panel hides the checkout control for empty carts, so this only guards
// direct requests.
var ErrEmptyCart = errors.New("cart is empty")

// OrderItem is the per-line snapshot submitted to the entity store.
type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Order is the payload for order creation. The created order is never read
// back by this service.
type Order struct {
	Items       []OrderItem
	TotalAmount decimal.Decimal
}

// Store is the slice of the entity API the checkout sequence needs.
type Store interface {
	// CreateOrder submits a new order.
	CreateOrder(ctx context.Context, o Order) error
	// UpdateProductStock applies a partial product update setting the stock
	// count. The result is unexamined by callers.
	UpdateProductStock(ctx context.Context, productID string, stock int) error
}

// Service runs the checkout sequence against the entity store.
type Service struct {
	store Store
}

// NewService creates a checkout Service backed by the given entity store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Checkout submits one order for the given lines and then decrements each
// product's remote stock to (captured stock − quantity).
//
// Stock updates run strictly one at a time, in cart insertion order. There is
// no rollback: if an update fails partway, earlier products stay decremented
// and the created order stands. The new stock is computed from the stock
// captured at add time, not re-read from the store.
func (s *Service) Checkout(ctx context.Context, lines []cart.Line) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}

	items := make([]OrderItem, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		items[i] = OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		}
		total = total.Add(l.Total())
	}

	if err := s.store.CreateOrder(ctx, Order{Items: items, TotalAmount: total}); err != nil {
		return errors.Wrap(err, "create order")
	}

	for _, l := range lines {
		if err := s.store.UpdateProductStock(ctx, l.ProductID, l.Stock-l.Quantity); err != nil {
			return errors.Wrapf(err, "update stock for product %s", l.ProductID)
		}
	}

	return nil
}
