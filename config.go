package gate

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	DefaultContextKey      = "admin_session"
	DefaultAuthScheme      = "Bearer"
	DefaultTokenLookup     = "header:Authorization,cookie:" + DefaultContextKey
	DefaultRefreshInterval = 2 * time.Second
	DefaultWaitBudget      = 150 * time.Millisecond
	DefaultLookupTimeout   = 5 * time.Second
	DefaultCacheTTL        = 30 * time.Second
)

var _ Config = (*Options)(nil)

// Options is the stock Config implementation
type Options struct {
	SigningKey      string        `json:"signing_key"`
	SigningMethod   string        `json:"signing_method"`
	ContextKey      string        `json:"context_key"`
	TokenLookup     string        `json:"token_lookup"`
	AuthScheme      string        `json:"auth_scheme"`
	Issuer          string        `json:"issuer"`
	Audience        []string      `json:"audience"`
	JWKSetURLs      []string      `json:"jwk_set_urls"`
	LoadingView     string        `json:"loading_view"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	WaitBudget      time.Duration `json:"wait_budget"`
	LookupTimeout   time.Duration `json:"lookup_timeout"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	Brand           Brand         `json:"brand"`
}

// DefaultOptions returns Options with every default applied
func DefaultOptions() *Options {
	return (&Options{}).WithDefaults()
}

// WithDefaults fills zero values in place and returns o
func (o *Options) WithDefaults() *Options {
	if o.SigningMethod == "" {
		o.SigningMethod = jwt.SigningMethodHS256.Alg()
	}
	if o.ContextKey == "" {
		o.ContextKey = DefaultContextKey
	}
	if o.TokenLookup == "" {
		o.TokenLookup = DefaultTokenLookup
	}
	if o.AuthScheme == "" {
		o.AuthScheme = DefaultAuthScheme
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	if o.WaitBudget <= 0 {
		o.WaitBudget = DefaultWaitBudget
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = DefaultLookupTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Brand == (Brand{}) {
		o.Brand = DefaultBrand()
	}
	return o
}

// Validate checks the options are usable for token validation
func (o Options) Validate() error {
	// a JWK set replaces the shared secret
	keyRules := []validation.Rule{}
	if len(o.JWKSetURLs) == 0 {
		keyRules = append(keyRules, validation.Required, validation.Length(16, 0))
	}

	err := validation.ValidateStruct(&o,
		validation.Field(&o.SigningMethod, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&o.ContextKey, validation.Required),
		validation.Field(&o.TokenLookup, validation.Required),
		validation.Field(&o.SigningKey, keyRules...),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid gate options").
			WithTextCode("INVALID_GATE_OPTIONS")
	}
	return nil
}

func (o Options) GetSigningKey() string             { return o.SigningKey }
func (o Options) GetSigningMethod() string          { return o.SigningMethod }
func (o Options) GetContextKey() string             { return o.ContextKey }
func (o Options) GetTokenLookup() string            { return o.TokenLookup }
func (o Options) GetAuthScheme() string             { return o.AuthScheme }
func (o Options) GetIssuer() string                 { return o.Issuer }
func (o Options) GetAudience() []string             { return o.Audience }
func (o Options) GetJWKSetURLs() []string           { return o.JWKSetURLs }
func (o Options) GetLoadingView() string            { return o.LoadingView }
func (o Options) GetRefreshInterval() time.Duration { return o.RefreshInterval }
func (o Options) GetWaitBudget() time.Duration      { return o.WaitBudget }
func (o Options) GetLookupTimeout() time.Duration   { return o.LookupTimeout }
func (o Options) GetCacheTTL() time.Duration        { return o.CacheTTL }
func (o Options) GetBrand() Brand                   { return o.Brand }
