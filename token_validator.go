package gate

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-auth-gate/middleware/jwtware"
	"github.com/goliatone/go-errors"
)

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrUnableToDecodeSession
	}
	return f(tokenString)
}

// MultiTokenValidator tries validators in order until one succeeds.
// It treats ErrTokenMalformed as "try next" and returns the last malformed
// error if all validators fail.
type MultiTokenValidator struct {
	validators []TokenValidator
}

// NewMultiTokenValidator filters nil validators and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	filtered := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &MultiTokenValidator{validators: filtered}
}

// Validate satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.validators {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
		if IsMalformedError(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrTokenMalformed
}

// JWKSValidator validates tokens signed by keys published in JWK sets
type JWKSValidator struct {
	keyFunc  jwt.Keyfunc
	issuer   string
	audience []string
	shutdown func()
}

// NewJWKSValidator fetches the JWK sets in cfg and keeps them refreshed in
// the background. Call Close to stop the refresh goroutines.
func NewJWKSValidator(cfg Config, logger Logger) (*JWKSValidator, error) {
	urls := cfg.GetJWKSetURLs()
	if len(urls) == 0 {
		return nil, ErrSigningKeyMissing
	}

	if logger == nil {
		logger = defLogger{}
	}

	keyFunc, stop, err := jwtware.NewKeyfunc(jwtware.KeyConfig{
		JWKSetURLs: urls,
		OnRefreshError: func(err error) {
			logger.Warn("failed to refresh JWK set", "urls", urls, "error", err)
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load JWK sets").
			WithMetadata(map[string]any{"urls": urls})
	}

	return &JWKSValidator{
		keyFunc:  keyFunc,
		issuer:   cfg.GetIssuer(),
		audience: cfg.GetAudience(),
		shutdown: stop,
	}, nil
}

// Validate satisfies the TokenValidator interface.
func (v *JWKSValidator) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}
	if len(v.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(v.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, v.keyFunc, parserOptions...)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnableToDecodeSession
}

// Close stops background JWK set refreshes
func (v *JWKSValidator) Close() {
	if v.shutdown != nil {
		v.shutdown()
	}
}

// NewTokenValidator builds the validator cfg asks for: the shared secret,
// JWK sets, or both chained.
func NewTokenValidator(cfg Config, logger Logger) (TokenValidator, func(), error) {
	validators := []TokenValidator{}
	closers := []func(){}

	if cfg.GetSigningKey() != "" {
		ts, err := NewTokenService(cfg, 0, logger)
		if err != nil {
			return nil, nil, err
		}
		validators = append(validators, ts)
	}

	if len(cfg.GetJWKSetURLs()) > 0 {
		jv, err := NewJWKSValidator(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		validators = append(validators, jv)
		closers = append(closers, jv.Close)
	}

	if len(validators) == 0 {
		return nil, nil, ErrSigningKeyMissing
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(validators) == 1 {
		return validators[0], closeAll, nil
	}
	return NewMultiTokenValidator(validators...), closeAll, nil
}
