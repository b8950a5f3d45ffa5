package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *JWTIssuer {
	return NewJWTIssuer(&cfg.AuthCfg{JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "test"})
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j := newTestIssuer()

	token, err := j.Issue("admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestJWTIssuer_Expired(t *testing.T) {
	j := newTestIssuer()
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.Issue("admin@example.com")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(token)
	assert.True(t, errors.Is(err, e.ErrUnauthorized))
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	token, err := newTestIssuer().Issue("admin@example.com")
	require.NoError(t, err)

	other := NewJWTIssuer(&cfg.AuthCfg{JWTSecret: "other", TokenTTL: time.Hour, Issuer: "test"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestJWTIssuer_Garbage(t *testing.T) {
	_, err := newTestIssuer().Verify("not-a-token")
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}
