package gate_test

import (
	"testing"
	"time"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := gate.DefaultOptions()

	assert.Equal(t, "HS256", opts.GetSigningMethod())
	assert.Equal(t, gate.DefaultContextKey, opts.GetContextKey())
	assert.Equal(t, gate.DefaultTokenLookup, opts.GetTokenLookup())
	assert.Equal(t, "Bearer", opts.GetAuthScheme())
	assert.Equal(t, 2*time.Second, opts.GetRefreshInterval())
	assert.Equal(t, 150*time.Millisecond, opts.GetWaitBudget())
	assert.Equal(t, 5*time.Second, opts.GetLookupTimeout())
	assert.Equal(t, 30*time.Second, opts.GetCacheTTL())
	assert.Equal(t, gate.DefaultBrand(), opts.GetBrand())
	assert.Empty(t, opts.GetLoadingView())
}

func TestOptions_WithDefaultsKeepsValues(t *testing.T) {
	opts := (&gate.Options{
		SigningMethod: "HS512",
		ContextKey:    "sess",
		WaitBudget:    time.Second,
		Brand:         gate.Brand{Name: "Acme"},
	}).WithDefaults()

	assert.Equal(t, "HS512", opts.SigningMethod)
	assert.Equal(t, "sess", opts.ContextKey)
	assert.Equal(t, time.Second, opts.WaitBudget)
	assert.Equal(t, "Acme", opts.Brand.Name)
	assert.Equal(t, gate.DefaultCacheTTL, opts.CacheTTL)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*gate.Options)
		wantErr bool
	}{
		{
			name:   "shared secret",
			mutate: func(o *gate.Options) { o.SigningKey = "0123456789abcdef" },
		},
		{
			name:    "missing key",
			mutate:  func(o *gate.Options) {},
			wantErr: true,
		},
		{
			name:    "short key",
			mutate:  func(o *gate.Options) { o.SigningKey = "short" },
			wantErr: true,
		},
		{
			name:   "jwks without key",
			mutate: func(o *gate.Options) { o.JWKSetURLs = []string{"https://id.example.com/jwks.json"} },
		},
		{
			name: "asymmetric method",
			mutate: func(o *gate.Options) {
				o.SigningKey = "0123456789abcdef"
				o.SigningMethod = "RS256"
			},
			wantErr: true,
		},
		{
			name: "empty lookup",
			mutate: func(o *gate.Options) {
				o.SigningKey = "0123456789abcdef"
				o.TokenLookup = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := gate.DefaultOptions()
			tt.mutate(opts)

			err := opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid gate options")
				return
			}
			assert.NoError(t, err)
		})
	}
}
