package main

import (
	"time"

	"github.com/caarlos0/env/v11"
	gate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-errors"
)

// ServerConfig is the demo server configuration, read from GATE_* variables.
// There is no default signing key: either GATE_SIGNING_KEY or
// GATE_JWKS_URLS has to be set.
type ServerConfig struct {
	Addr        string `env:"GATE_ADDR"         envDefault:":8573"`
	MetricsAddr string `env:"GATE_METRICS_ADDR" envDefault:":9573"`
	DSN         string `env:"GATE_DSN"          envDefault:"file::memory:?cache=shared"`

	SigningKey    string        `env:"GATE_SIGNING_KEY"`
	SigningMethod string        `env:"GATE_SIGNING_METHOD" envDefault:"HS256"`
	ContextKey    string        `env:"GATE_CONTEXT_KEY"    envDefault:"admin_session"`
	TokenLookup   string        `env:"GATE_TOKEN_LOOKUP"`
	Issuer        string        `env:"GATE_ISSUER"         envDefault:"go-auth-gate"`
	Audience      []string      `env:"GATE_AUDIENCE"       envSeparator:","`
	JWKSetURLs    []string      `env:"GATE_JWKS_URLS"      envSeparator:","`
	TokenTTL      time.Duration `env:"GATE_TOKEN_TTL"      envDefault:"12h"`

	LoadingView     string        `env:"GATE_LOADING_VIEW"     envDefault:"loading"`
	RefreshInterval time.Duration `env:"GATE_REFRESH_INTERVAL" envDefault:"2s"`
	WaitBudget      time.Duration `env:"GATE_WAIT_BUDGET"      envDefault:"150ms"`
	LookupTimeout   time.Duration `env:"GATE_LOOKUP_TIMEOUT"   envDefault:"5s"`
	CacheTTL        time.Duration `env:"GATE_CACHE_TTL"        envDefault:"30s"`

	BrandName        string `env:"GATE_BRAND_NAME"`
	BrandTagline     string `env:"GATE_BRAND_TAGLINE"`
	BrandLoadingText string `env:"GATE_BRAND_LOADING_TEXT"`
}

// LoadServerConfig parses the environment. Malformed values are errors,
// they never fall back to a default.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, errors.CategoryValidation, "parse env").
			WithTextCode("INVALID_SERVER_CONFIG")
	}
	return cfg, nil
}

// Options maps the server config onto the gate options
func (c ServerConfig) Options() *gate.Options {
	opts := &gate.Options{
		SigningKey:      c.SigningKey,
		SigningMethod:   c.SigningMethod,
		ContextKey:      c.ContextKey,
		TokenLookup:     c.TokenLookup,
		Issuer:          c.Issuer,
		Audience:        c.Audience,
		JWKSetURLs:      c.JWKSetURLs,
		LoadingView:     c.LoadingView,
		RefreshInterval: c.RefreshInterval,
		WaitBudget:      c.WaitBudget,
		LookupTimeout:   c.LookupTimeout,
		CacheTTL:        c.CacheTTL,
		Brand: gate.Brand{
			Name:        c.BrandName,
			Tagline:     c.BrandTagline,
			LoadingText: c.BrandLoadingText,
		},
	}
	return opts.WithDefaults()
}

var weakSigningKeys = map[string]bool{
	"change-me-change-me-change-me": true,
	"your-256-bit-secret":           true,
}

// WeakSigningKey reports keys copied from examples
func (c ServerConfig) WeakSigningKey() bool {
	return weakSigningKeys[c.SigningKey]
}
