package jwtware

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestKeyfuncOptionsRefreshErrorHandlerIsSafe(t *testing.T) {
	opts := keyfuncOptions(nil)
	require.NotNil(t, opts.RefreshErrorHandler)
	require.NotPanics(t, func() {
		opts.RefreshErrorHandler(errors.New("refresh failed"))
	})

	require.Equal(t, time.Hour, opts.RefreshInterval)
	require.Equal(t, 5*time.Minute, opts.RefreshRateLimit)
	require.Equal(t, 10*time.Second, opts.RefreshTimeout)
	require.True(t, opts.RefreshUnknownKID)
}

func TestKeyfuncOptionsForwardsRefreshErrors(t *testing.T) {
	var got error
	opts := keyfuncOptions(func(err error) { got = err })

	refreshErr := errors.New("jwks unreachable")
	opts.RefreshErrorHandler(refreshErr)

	require.ErrorIs(t, got, refreshErr)
	require.Nil(t, opts.GivenKeys)
}

func TestSigningKeyFuncRejectsOtherAlgorithms(t *testing.T) {
	kf := signingKeyFunc(SigningKey{JWTAlg: "HS256", Key: []byte("k")})

	key, err := kf(&jwt.Token{Header: map[string]any{"alg": "HS256"}})
	require.NoError(t, err)
	require.Equal(t, []byte("k"), key)

	_, err = kf(&jwt.Token{Header: map[string]any{"alg": "none"}})
	require.Error(t, err)

	_, err = kf(&jwt.Token{Header: map[string]any{}})
	require.Error(t, err)
}
