// Package cart implements the in-memory cart state model: an ordered
// sequence of lines, unique by product id, holding product snapshots
// captured at add time.
package cart

import "github.com/shopspring/decimal"

// Snapshot holds the product display fields copied into a line when the
// product is added. The fields are frozen at add time: later catalog changes
// (price, stock) never flow into lines already in the cart.
type Snapshot struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	Stock     int
}

// Line is one cart entry: a product snapshot plus a mutable quantity.
// Quantity is always positive while the line is present; driving it to zero
// removes the line instead of storing a zero.
type Line struct {
	Snapshot
	Quantity int
}

// Total returns price × quantity for this line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines. It is owned by exactly one session
// and does no locking of its own; callers serialize access through the
// session lock.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges the snapshot into the cart. If a line for the same product id
// already exists its quantity grows by quantity and every other line is left
// untouched; otherwise a new line is appended at the end. Callers are
// responsible for passing a positive quantity.
func (c *Cart) Add(p Snapshot, quantity int) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ProductID {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{Snapshot: p, Quantity: quantity})
}

// SetQuantity replaces the quantity of the line with the given product id.
// A quantity of zero or less removes the line entirely, preserving the
// relative order of the remaining lines. Unknown product ids are a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Subtotal recomputes the sum of price × quantity across all lines on every
// call; nothing is cached.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// ItemCount returns the sum of quantities across all lines, shown as the
// cart badge.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
