// Package handler serves the storefront pages: the page shell, the catalog
// grid, the slide-out cart panel, and the checkout action.
package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"reflect"

	"github.com/go-faster/sdk/zctx"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/snack-shack/internal/domain/checkout"
	"github.com/xenking/snack-shack/internal/entity"
	"github.com/xenking/snack-shack/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Catalog is the read side of the entity API the views need.
type Catalog interface {
	CurrentUser(ctx context.Context) (*entity.User, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative product image paths. Absolute
	// URLs pass through untouched.
	ImageBaseURL string
}

// Handler renders the storefront and mutates per-session cart state.
type Handler struct {
	sessions *session.Store
	catalog  Catalog
	checkout *checkout.Service

	decoder      *schema.Decoder
	tmpl         *template.Template
	flight       singleflight.Group
	imageBaseURL string
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	cfg HandlerConfig,
	sessions *session.Store,
	catalog Catalog,
	checkoutSvc *checkout.Service,
) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})

	return &Handler{
		sessions:     sessions,
		catalog:      catalog,
		checkout:     checkoutSvc,
		decoder:      decoder,
		tmpl:         template.Must(template.ParseFS(templateFS, "templates/*.html")),
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register wires all storefront routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /fragments/catalog", h.CatalogFragment)
	mux.HandleFunc("GET /fragments/cart", h.CartFragment)
	mux.HandleFunc("POST /cart/items", h.AddToCart)
	mux.HandleFunc("POST /cart/items/{id}", h.UpdateQuantity)
	mux.HandleFunc("POST /cart/open", h.OpenCart)
	mux.HandleFunc("POST /cart/close", h.CloseCart)
	mux.HandleFunc("POST /checkout", h.Checkout)
}

// render executes the named template into a buffer first so a template error
// never produces a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		zctx.From(r.Context()).Error("render template",
			zap.String("template", name),
			zap.Error(err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// redirectBack sends the browser back to the storefront after a form post.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
