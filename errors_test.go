package gate_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsUserNotFound(t *testing.T) {
	assert.False(t, gate.IsUserNotFound(nil))
	assert.True(t, gate.IsUserNotFound(gate.ErrUserNotFound))
	assert.True(t, gate.IsUserNotFound(fmt.Errorf("%w: ada", gate.ErrUserNotFound)))
	assert.True(t, gate.IsUserNotFound(errors.New("missing", errors.CategoryNotFound)))
	assert.False(t, gate.IsUserNotFound(stderrors.New("boom")))
}

func TestTokenErrorHelpers(t *testing.T) {
	assert.False(t, gate.IsTokenExpiredError(nil))
	assert.True(t, gate.IsTokenExpiredError(gate.ErrTokenExpired))
	assert.False(t, gate.IsTokenExpiredError(gate.ErrTokenMalformed))

	assert.False(t, gate.IsMalformedError(nil))
	assert.True(t, gate.IsMalformedError(gate.ErrTokenMalformed))
	assert.False(t, gate.IsMalformedError(gate.ErrTokenExpired))
}

func TestErrorTextCodes(t *testing.T) {
	assert.Equal(t, gate.TextCodeTokenExpired, gate.ErrTokenExpired.TextCode)
	assert.Equal(t, gate.TextCodeTokenMalformed, gate.ErrTokenMalformed.TextCode)
	assert.Equal(t, gate.TextCodeResolverRequired, gate.ErrResolverRequired.TextCode)
	assert.Equal(t, errors.CategoryAuth, gate.ErrTokenExpired.Category)
}
