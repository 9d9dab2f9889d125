// Package entity is the outbound HTTP client for the remote entity API
// (Users, Products, Orders). The storefront holds no data of its own beyond
// per-session carts; everything durable lives behind this API.
package entity

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNoSession indicates the entity API has no authenticated session for the
// caller. Callers treat it as "anonymous visitor", not as a failure.
var ErrNoSession = errors.New("no active session")

// RoleAdmin is the role value that unlocks the control panel navigation.
const RoleAdmin = "admin"

// User is the session user record returned by the entity API.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user carries the admin role. Safe on nil.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Product is a catalog item as served by the entity API. The client only
// holds copies fetched at render time.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	CreatedDate time.Time       `json:"created_date"`
}
