package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/snack-shack/internal/entity"
)

// Index serves the page shell: navigation with the cart badge, skeleton
// cards that the catalog fragment replaces once loaded, and the cart panel
// when open.
//
// The session user is looked up on the first page view of a session and
// cached; any lookup failure renders the anonymous storefront rather than an
// error page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Ensure(w, r)

	user, loaded := sess.User()
	if !loaded {
		u, err := h.catalog.CurrentUser(r.Context())
		if err != nil {
			if !errors.Is(err, entity.ErrNoSession) {
				zctx.From(r.Context()).Warn("current user lookup failed", zap.Error(err))
			}
			u = nil
		}
		sess.SetUser(u)
		user = u
	}

	h.render(w, r, "layout", h.newPageView(sess, user))
}
