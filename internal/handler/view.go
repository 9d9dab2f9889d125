package handler

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xenking/snack-shack/internal/domain/cart"
	"github.com/xenking/snack-shack/internal/entity"
	"github.com/xenking/snack-shack/internal/session"
)

// skeletonCards is how many placeholder cards the shell shows while the
// catalog fragment is loading, matching the final grid's shape.
const skeletonCards = 8

// inStockThreshold is the boundary for the availability label: strictly more
// than this renders "In Stock", anything at or below shows the exact count.
const inStockThreshold = 10

// pageView is the data for the page shell.
type pageView struct {
	User      *entity.User
	ItemCount int
	CartOpen  bool
	Cart      cartView
	Skeletons []struct{}
}

// productView is one catalog card.
type productView struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       string // display, e.g. $2.50
	PriceValue  string // raw decimal for the add form
	Stock       int
	StockLabel  string
}

// cartView is the slide-out panel.
type cartView struct {
	Lines    []lineView
	Subtotal string
	Empty    bool
}

// lineView is one cart line with stepper targets precomputed.
type lineView struct {
	ProductID string
	Name      string
	ImageURL  string
	UnitPrice string
	LineTotal string
	Quantity  int
	DecTarget int  // quantity minus one; zero removes the line
	IncTarget int  // quantity plus one
	AtCap     bool // quantity reached the stock captured at add time
}

// money renders a currency-prefixed amount with exactly two decimals.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// stockLabel renders the binary availability label. The threshold is
// strictly greater-than: stock 11 is "In Stock", stock 10 is "Only 10 left!".
func stockLabel(stock int) string {
	if stock > inStockThreshold {
		return "In Stock"
	}
	return fmt.Sprintf("Only %d left!", stock)
}

// imageURL resolves a product image reference against the configured base.
func (h *Handler) imageURL(ref string) string {
	if h.imageBaseURL == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return h.imageBaseURL + ref
}

func (h *Handler) newProductView(p entity.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    h.imageURL(p.ImageURL),
		Price:       money(p.Price),
		PriceValue:  p.Price.String(),
		Stock:       p.Stock,
		StockLabel:  stockLabel(p.Stock),
	}
}

func (h *Handler) newCartView(s *session.Session) cartView {
	lines := s.CartLines()
	v := cartView{
		Lines: make([]lineView, len(lines)),
		Empty: len(lines) == 0,
	}
	for i, l := range lines {
		v.Lines[i] = newLineView(l, h.imageURL(l.ImageURL))
	}
	if !v.Empty {
		v.Subtotal = money(s.Subtotal())
	}
	return v
}

func newLineView(l cart.Line, imageURL string) lineView {
	return lineView{
		ProductID: l.ProductID,
		Name:      l.Name,
		ImageURL:  imageURL,
		UnitPrice: money(l.Price),
		LineTotal: money(l.Total()),
		Quantity:  l.Quantity,
		DecTarget: l.Quantity - 1,
		IncTarget: l.Quantity + 1,
		AtCap:     l.Quantity >= l.Stock,
	}
}

func (h *Handler) newPageView(s *session.Session, user *entity.User) pageView {
	return pageView{
		User:      user,
		ItemCount: s.ItemCount(),
		CartOpen:  s.CartOpen(),
		Cart:      h.newCartView(s),
		Skeletons: make([]struct{}, skeletonCards),
	}
}
