package jwtware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// Lookup describes where session tokens are read from, e.g.
// "header:Authorization,cookie:admin_session,query:auth_token,param:token"
type Lookup struct {
	TokenLookup string
	AuthScheme  string
}

// Extract returns the first non empty token found by the lookup sources
func (l Lookup) Extract(ctx router.Context) (string, error) {
	lookup := l.TokenLookup
	if lookup == "" {
		lookup = defaultTokenLookup
	}
	return ExtractRawTokenFromContext(ctx, GetExtractors(lookup, l.AuthScheme))
}

type SigningKey struct {
	JWTAlg string
	Key    any
}

// KeyConfig selects the key material used to verify token signatures.
// OnRefreshError receives background JWK set refresh failures.
type KeyConfig struct {
	SigningKey     SigningKey
	JWKSetURLs     []string
	OnRefreshError func(error)
}

// NewKeyfunc builds a jwt.Keyfunc from cfg. The returned stop function ends
// background JWK set refreshes and is never nil.
func NewKeyfunc(cfg KeyConfig) (jwt.Keyfunc, func(), error) {
	noop := func() {}

	if len(cfg.JWKSetURLs) > 0 {
		return multiKeyfunc(cfg.JWKSetURLs, cfg.OnRefreshError)
	}

	if cfg.SigningKey.Key == nil {
		return nil, noop, errors.New("one of SigningKey or JWKSetURLs is required")
	}

	return signingKeyFunc(cfg.SigningKey), noop, nil
}

func multiKeyfunc(jwtSetUrls []string, onErr func(error)) (jwt.Keyfunc, func(), error) {
	opts := keyfuncOptions(onErr)
	m := make(map[string]keyfunc.Options, len(jwtSetUrls))
	for _, url := range jwtSetUrls {
		m[url] = opts
	}
	mopts := keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	}
	multi, err := keyfunc.GetMultiple(m, mopts)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to get JWT URLs: %w", err)
	}
	stop := func() {
		for _, jwks := range multi.JWKSets() {
			jwks.EndBackground()
		}
	}
	return multi.Keyfunc, stop, nil
}

func keyfuncOptions(onErr func(error)) keyfunc.Options {
	if onErr == nil {
		onErr = func(error) {}
	}
	return keyfunc.Options{
		RefreshErrorHandler: onErr,
		RefreshInterval:     time.Hour,
		RefreshRateLimit:    time.Minute * 5,
		RefreshTimeout:      time.Second * 10,
		RefreshUnknownKID:   true,
	}
}

func ExtractRawTokenFromContext(ctx router.Context, extractors []JWTExtractor) (string, error) {
	var raw string
	err := ErrJWTMissingOrMalformed

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 && authSchemes[0] != "" {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c router.Context) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) func(c router.Context) (string, error) {
	authScheme = strings.TrimSpace(authScheme)
	return func(c router.Context) (string, error) {
		a := c.Header(header)
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

func signingKeyFunc(key SigningKey) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if key.JWTAlg != "" {
			alg, ok := token.Header["alg"].(string)
			if !ok {
				return nil, fmt.Errorf("unexpected JWT signing method: expected %q got: missing json type", key.JWTAlg)
			}
			if alg != key.JWTAlg {
				return nil, fmt.Errorf("unexpected jwt signing method: expected: %q: got: %q", key.JWTAlg, alg)
			}
		}
		return key.Key, nil
	}
}
