// internal/auth/token_test.go
package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)
	require.NotNil(t, ti)
	playerID := uuid.New()

	token, err := ti.Issue("ABC234", playerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, ti.Verify(token, "ABC234", playerID))
	assert.ErrorIs(t, ti.Verify(token, "XYZ789", playerID), ErrInvalidToken)
	assert.ErrorIs(t, ti.Verify(token, "ABC234", uuid.New()), ErrInvalidToken)
	assert.ErrorIs(t, ti.Verify("", "ABC234", playerID), ErrInvalidToken)
	assert.ErrorIs(t, ti.Verify("garbage", "ABC234", playerID), ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	playerID := uuid.New()
	other := NewTokenIssuer("other-secret", time.Minute)
	token, err := other.Issue("ABC234", playerID)
	require.NoError(t, err)

	ti := NewTokenIssuer("secret", time.Minute)
	assert.ErrorIs(t, ti.Verify(token, "ABC234", playerID), ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Nanosecond)
	playerID := uuid.New()
	token, err := ti.Issue("ABC234", playerID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	assert.ErrorIs(t, ti.Verify(token, "ABC234", playerID), ErrInvalidToken)
}

func TestEmptySecretDisablesIssuer(t *testing.T) {
	assert.Nil(t, NewTokenIssuer("", time.Minute))
}
