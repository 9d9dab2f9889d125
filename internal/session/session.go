// Package session ties a browser to its cart. State is held only in process
// memory for the lifetime of one browsing session; there is no persistence
// and no server-side mirror until checkout.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/snack-shack/internal/domain/cart"
	"github.com/xenking/snack-shack/internal/entity"
)

// CookieName is the session cookie set on every visitor.
const CookieName = "shack_session"

// Session is the per-visitor state the page shell owns: the cart, the cached
// session user, and the cart panel visibility flag. All access goes through
// the session mutex; the cart itself does no locking.
type Session struct {
	ID string

	mu         sync.Mutex
	cart       *cart.Cart
	user       *entity.User
	userLoaded bool
	cartOpen   bool
	lastSeen   time.Time
}

// AddToCart merges the snapshot into the cart and opens the cart panel.
// Adding always reveals the panel, matching the add operation's contract.
func (s *Session) AddToCart(p cart.Snapshot, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(p, quantity)
	s.cartOpen = true
}

// SetQuantity forwards to the cart: zero or negative removes the line,
// unknown ids are a no-op.
func (s *Session) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(productID, quantity)
}

// ClearCart empties the cart after a successful checkout.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartLines returns a copy of the cart lines in insertion order.
func (s *Session) CartLines() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Subtotal recomputes the cart subtotal.
func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// ItemCount returns the badge count.
func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// CartOpen reports the panel visibility flag.
func (s *Session) CartOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartOpen
}

// SetCartOpen sets the panel visibility flag. Closing never touches the
// cart contents.
func (s *Session) SetCartOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = open
}

// User returns the cached session user and whether the lookup has already
// happened. A nil user with loaded=true means the visitor is anonymous.
func (s *Session) User() (u *entity.User, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.userLoaded
}

// SetUser caches the entity API's answer for this session; nil marks the
// visitor as anonymous. The lookup happens once per session.
func (s *Session) SetUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.userLoaded = true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) seenBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Store keeps sessions keyed by cookie value and evicts the idle ones.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by the cleanup goroutine.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Ensure returns the session for the request, creating one (and setting the
// cookie) when the visitor has none. The session's idle timer is reset.
func (st *Store) Ensure(w http.ResponseWriter, r *http.Request) *Session {
	now := time.Now()

	if c, err := r.Cookie(CookieName); err == nil {
		st.mu.Lock()
		s, ok := st.sessions[c.Value]
		st.mu.Unlock()
		if ok {
			s.touch(now)
			return s
		}
	}

	s := &Session{
		ID:       uuid.New().String(),
		cart:     cart.New(),
		lastSeen: now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// StartCleanup launches a goroutine that evicts idle sessions every
// interval. It stops when ctx is cancelled.
func (st *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				st.cleanup(now)
			}
		}
	}()
}

func (st *Store) cleanup(now time.Time) {
	cutoff := now.Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		if s.seenBefore(cutoff) {
			delete(st.sessions, id)
		}
	}
}
