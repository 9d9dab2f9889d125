package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/snack-shack/internal/domain/cart"
)

// addForm is the product snapshot carried by the add-to-cart form. The card
// that rendered the product posts back the fields it displayed, so the line
// captures exactly what the shopper saw.
type addForm struct {
	ProductID string          `schema:"product_id"`
	Name      string          `schema:"name"`
	Price     decimal.Decimal `schema:"price"`
	ImageURL  string          `schema:"image_url"`
	Stock     int             `schema:"stock"`
	Quantity  int             `schema:"quantity"`
}

// AddToCart merges a product snapshot into the session cart and opens the
// cart panel. Catalog cards always post quantity 1; repeated clicks
// accumulate through the cart's merge behaviour.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var f addForm
	if err := h.decoder.Decode(&f, r.PostForm); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if f.ProductID == "" || f.Quantity <= 0 {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess.AddToCart(cart.Snapshot{
		ProductID: f.ProductID,
		Name:      f.Name,
		Price:     f.Price,
		ImageURL:  f.ImageURL,
		Stock:     f.Stock,
	}, f.Quantity)

	redirectBack(w, r)
}

// UpdateQuantity sets the quantity of one line: the steppers post
// quantity ± 1 and the remove control posts 0, which deletes the line.
// Unknown product ids fall through as a no-op.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	qty, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		http.Error(w, "bad quantity", http.StatusBadRequest)
		return
	}

	sess.SetQuantity(r.PathValue("id"), qty)
	redirectBack(w, r)
}

// CartFragment renders the cart panel for the current session.
func (h *Handler) CartFragment(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)
	h.render(w, r, "cart", h.newCartView(sess))
}

// OpenCart shows the cart panel.
func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.sessions.Ensure(w, r).SetCartOpen(true)
	redirectBack(w, r)
}

// CloseCart hides the cart panel. Closing never mutates cart contents,
// however many lines are present.
func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.sessions.Ensure(w, r).SetCartOpen(false)
	redirectBack(w, r)
}
