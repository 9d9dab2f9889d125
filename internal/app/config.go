package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHACK_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string        `default:"0.0.0.0:8080" usage:"Storefront listen address"`
	EntityAPIURL  string        `usage:"Base URL of the entity API (SHACK_ENTITY_API_URL or ENTITY_API_URL)" flag:"entity-api-url"`
	EntityAPIKey  string        `usage:"API key sent to the entity API (SHACK_ENTITY_API_KEY)" flag:"entity-api-key"`
	EntityTimeout time.Duration `default:"10s" usage:"Timeout for entity API calls" flag:"entity-timeout"`
	ImageBaseURL  string        `default:"" usage:"Base URL for relative product image paths" flag:"image-base-url"`
	SessionTTL    time.Duration `default:"24h" usage:"Idle lifetime of browser sessions" flag:"session-ttl"`
	RateLimit     RateLimitConfig
	Graceful      GracefulConfig
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"300" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHACK",
		Files:     []string{"config.yaml", "/etc/snack-shack/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.EntityAPIURL == "" {
		return nil, errors.New("entity API URL is required: set SHACK_ENTITY_API_URL or ENTITY_API_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like PORT to the application's
// SHACK_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.EntityAPIURL == "" {
		if v := os.Getenv("ENTITY_API_URL"); v != "" {
			c.EntityAPIURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
