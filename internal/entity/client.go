package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/snack-shack/internal/domain/checkout"
)

// Interface guard: the client is the Store behind the checkout sequence.
var _ checkout.Store = (*Client)(nil)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings for the entity API.
type Config struct {
	// BaseURL is the root of the entity API, e.g. https://api.example.com.
	BaseURL string
	// APIKey is sent on every request via the api_key header. Optional.
	APIKey string
	// Timeout bounds each request. Defaults to 10s when zero.
	Timeout time.Duration
}

// Client calls the entity API over HTTP with JSON bodies. The transport is
// instrumented with otelhttp so upstream calls show up in traces.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an entity API client from the given config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CurrentUser returns the entity API's session user. A missing or expired
// session maps to ErrNoSession; callers render the anonymous storefront.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/users/me", nil)
	if err != nil {
		return nil, errors.Wrap(err, "get current user")
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil, ErrNoSession
	default:
		return nil, errors.Errorf("get current user: unexpected status %d", resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, errors.Wrap(err, "decode user")
	}
	return &u, nil
}

// ListProducts fetches the full product list, most recently created first.
// The out-of-stock filter is applied by the caller, not here.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/products?sort=-created_date", nil)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("list products: unexpected status %d", resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// UpdateProductStock applies a partial update setting the product's stock
// count. The response body is discarded; only the status matters.
func (c *Client) UpdateProductStock(ctx context.Context, productID string, stock int) error {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("stock", func(e *jx.Encoder) { e.Int(stock) })
	})

	resp, err := c.do(ctx, http.MethodPatch, "/api/products/"+productID, e.Bytes())
	if err != nil {
		return errors.Wrapf(err, "update product %s", productID)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("update product %s: unexpected status %d", productID, resp.StatusCode)
	}
	return nil
}

// CreateOrder submits a new order. The created record is not read back.
func (c *Client) CreateOrder(ctx context.Context, o checkout.Order) error {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("product_id", func(e *jx.Encoder) { e.Str(it.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
						e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(it.Price.String())) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
					})
				}
			})
		})
		e.Field("total_amount", func(e *jx.Encoder) { e.Num(jx.Num(o.TotalAmount.String())) })
	})

	resp, err := c.do(ctx, http.MethodPost, "/api/orders", e.Bytes())
	if err != nil {
		return errors.Wrap(err, "create order")
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("create order: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Ping probes the entity API for the readiness check. Any HTTP response
// below 500 counts as reachable; only transport failures and server errors
// mark the upstream unhealthy.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return errors.Wrap(err, "ping entity api")
	}
	defer closeBody(resp)

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("entity api unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}
	return c.http.Do(req)
}

// closeBody drains and closes the response body so the underlying connection
// can be reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
