package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Checkout runs the checkout sequence for the session cart: one order
// creation followed by sequential per-product stock updates. On success the
// cart is cleared and the panel closed; on failure the cart is left as-is
// and the error surfaces as a 500 (there is no rollback of updates already
// applied upstream).
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	lines := sess.CartLines()
	if len(lines) == 0 {
		// The checkout control is not rendered for empty carts; a direct
		// post just goes back to the store.
		redirectBack(w, r)
		return
	}

	if err := h.checkout.Checkout(r.Context(), lines); err != nil {
		zctx.From(r.Context()).Error("checkout failed",
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		http.Error(w, "checkout failed", http.StatusInternalServerError)
		return
	}

	sess.ClearCart()
	sess.SetCartOpen(false)
	redirectBack(w, r)
}
