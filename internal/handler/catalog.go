package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/snack-shack/internal/entity"
)

// CatalogFragment renders the product grid. Products are fetched most
// recently created first and filtered to stock > 0 before rendering; the
// upstream list is never cached, but concurrent fetches are collapsed into
// one upstream call.
func (h *Handler) CatalogFragment(w http.ResponseWriter, r *http.Request) {
	// The fetch is shared across joined requests, so it must not inherit
	// the winning request's cancellation; values (logger, trace) survive.
	fetchCtx := context.WithoutCancel(r.Context())
	v, err, _ := h.flight.Do("products", func() (any, error) {
		return h.catalog.ListProducts(fetchCtx)
	})
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<p class="catalog-error">The snack shelf is unreachable right now. Please try again.</p>`))
		return
	}
	products := v.([]entity.Product)

	cards := make([]productView, 0, len(products))
	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		cards = append(cards, h.newProductView(p))
	}

	h.render(w, r, "catalog", cards)
}
