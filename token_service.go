package gate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-auth-gate/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService signs and validates admin session tokens with a shared secret
type TokenService struct {
	signingKey []byte
	keyFunc    jwt.Keyfunc
	method     jwt.SigningMethod
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a TokenService from cfg
func NewTokenService(cfg Config, ttl time.Duration, logger Logger) (*TokenService, error) {
	if cfg.GetSigningKey() == "" {
		return nil, ErrSigningKeyMissing
	}

	method := jwt.GetSigningMethod(cfg.GetSigningMethod())
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unsupported signing method", errors.CategoryValidation).
			WithMetadata(map[string]any{"alg": cfg.GetSigningMethod()})
	}

	if logger == nil {
		logger = defLogger{}
	}

	if ttl <= 0 {
		ttl = time.Hour
	}

	signingKey := []byte(cfg.GetSigningKey())
	keyFunc, _, err := jwtware.NewKeyfunc(jwtware.KeyConfig{
		SigningKey: jwtware.SigningKey{JWTAlg: method.Alg(), Key: signingKey},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build token key func")
	}

	ts := &TokenService{
		signingKey: signingKey,
		method:     method,
		ttl:        ttl,
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
	}

	ts.keyFunc = func(t *jwt.Token) (any, error) {
		key, err := keyFunc(t)
		if err != nil {
			ts.logger.Error("token service encountered unexpected signing method", "alg", t.Header["alg"])
		}
		return key, err
	}

	return ts, nil
}

// Generate signs a token for user
func (ts *TokenService) Generate(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UID:      user.ID.String(),
		UserRole: user.Role,
		Username: user.Username,
		Email:    user.Email,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenService) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenService) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.method.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, ts.keyFunc, parserOptions...)

	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token service could not decode or validate claims")
	return nil, ErrUnableToDecodeSession
}

func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
		WithTextCode(ErrTokenMalformed.TextCode).
		WithCode(errors.CodeUnauthorized)
}
