// Command entity-stub runs an in-memory stand-in for the entity API so the
// storefront can be developed and demoed without the real backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/snack-shack/internal/entity"
)

func main() {
	var (
		addr   string
		apiKey string
		role   string
	)

	flag.StringVar(&addr, "addr", "0.0.0.0:9090", "listen address")
	flag.StringVar(&apiKey, "api-key", "", "require this api_key header on requests (empty disables the check)")
	flag.StringVar(&role, "role", "customer", "role of the stub user: customer, admin, or none for anonymous")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, addr, apiKey, role); err != nil {
		slog.Error("entity stub failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, addr, apiKey, role string) error {
	st := newStub(apiKey, role)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", st.health)
	mux.HandleFunc("GET /api/users/me", st.auth(st.currentUser))
	mux.HandleFunc("GET /api/products", st.auth(st.listProducts))
	mux.HandleFunc("PATCH /api/products/{id}", st.auth(st.updateStock))
	mux.HandleFunc("POST /api/orders", st.auth(st.createOrder))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		Addr:              addr,
		Handler:           mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("entity stub listening",
		slog.String("addr", addr),
		slog.String("role", role),
		slog.Int("products", len(st.products)),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	return nil
}

type stub struct {
	apiKey string
	user   *entity.User

	mu       sync.Mutex
	products []entity.Product
	orders   int
}

func newStub(apiKey, role string) *stub {
	st := &stub{
		apiKey:   apiKey,
		products: seedProducts(),
	}
	switch role {
	case "admin":
		st.user = &entity.User{ID: uuid.NewString(), Email: "admin@snackshack.dev", FullName: "Ada Admin", Role: entity.RoleAdmin}
	case "customer":
		st.user = &entity.User{ID: uuid.NewString(), Email: "sam@snackshack.dev", FullName: "Sam Snacker", Role: "customer"}
	}
	return st
}

func (s *stub) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("api_key") != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			return
		}
		next(w, r)
	}
}

func (s *stub) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *stub) currentUser(w http.ResponseWriter, _ *http.Request) {
	if s.user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	writeJSON(w, http.StatusOK, s.user)
}

func (s *stub) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := make([]entity.Product, len(s.products))
	copy(products, s.products)
	s.mu.Unlock()

	if r.URL.Query().Get("sort") == "-created_date" {
		sort.Slice(products, func(i, j int) bool {
			return products[i].CreatedDate.After(products[j].CreatedDate)
		})
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *stub) updateStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Stock = body.Stock
			slog.Info("stock updated", slog.String("product", id), slog.Int("stock", body.Stock))
			writeJSON(w, http.StatusOK, s.products[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
}

func (s *stub) createOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []struct {
			ProductID string          `json:"product_id"`
			Name      string          `json:"name"`
			Price     decimal.Decimal `json:"price"`
			Quantity  int             `json:"quantity"`
		} `json:"items"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if len(body.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order has no items"})
		return
	}

	s.mu.Lock()
	s.orders++
	n := s.orders
	s.mu.Unlock()

	slog.Info("order created",
		slog.Int("number", n),
		slog.Int("items", len(body.Items)),
		slog.String("total", body.TotalAmount.StringFixed(2)),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           uuid.NewString(),
		"total_amount": body.TotalAmount,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func seedProducts() []entity.Product {
	price := decimal.RequireFromString
	now := time.Now()
	seeds := []struct {
		name, desc, image string
		price             decimal.Decimal
		stock             int
	}{
		{"Sea Salt Pretzels", "Crunchy twisted pretzels with a generous dusting of sea salt.", "https://images.unsplash.com/photo-1558401391-7899b4bd5bbf?w=600", price("3.50"), 42},
		{"Dark Chocolate Almonds", "Roasted almonds drenched in 70% dark chocolate.", "https://images.unsplash.com/photo-1548907040-4baa42d10919?w=600", price("6.25"), 18},
		{"Spicy Trail Mix", "Peanuts, cashews, and chili-dusted corn sticks.", "https://images.unsplash.com/photo-1599599810769-bcde5a160d32?w=600", price("4.75"), 9},
		{"Honey Oat Granola Bars", "Chewy bars of toasted oats bound with wildflower honey.", "https://images.unsplash.com/photo-1571748982800-fa51082c2224?w=600", price("5.00"), 30},
		{"Wasabi Peas", "Crisp green peas with a sinus-clearing wasabi coat.", "https://images.unsplash.com/photo-1615485500704-8e990f9900f7?w=600", price("3.00"), 3},
		{"Sour Gummy Worms", "Neon worms coated in mouth-puckering sour sugar.", "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f?w=600", price("2.50"), 55},
		{"Kettle Corn", "Sweet and salty popcorn popped in small batches.", "https://images.unsplash.com/photo-1578849278619-e73505e9610f?w=600", price("4.00"), 0},
		{"Rice Cracker Mix", "Japanese-style rice crackers with nori and soy glaze.", "https://images.unsplash.com/photo-1536304993881-ff6e9eefa2a6?w=600", price("5.50"), 12},
		{"Peanut Butter Cups", "House-made cups with crunchy peanut butter filling.", "https://images.unsplash.com/photo-1571506165871-ee72a35bc9d4?w=600", price("4.25"), 7},
		{"Dried Mango Strips", "Sun-dried mango with nothing added.", "https://images.unsplash.com/photo-1605027990121-cbae9e0642df?w=600", price("6.00"), 24},
	}

	products := make([]entity.Product, 0, len(seeds))
	for i, s := range seeds {
		products = append(products, entity.Product{
			ID:          uuid.NewString(),
			Name:        s.name,
			Description: s.desc,
			Price:       s.price,
			ImageURL:    s.image,
			Stock:       s.stock,
			CreatedDate: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return products
}
