package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer(now time.Time) *JWTer {
	return &JWTer{
		Secret: []byte("test-secret"),
		Issuer: "admin-dashboard",
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	}
}

func TestJWTer_RoundTrip(t *testing.T) {
	now := time.Now()
	j := newJWTer(now)

	tok, err := j.Issue("usr-1", "admin")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", c.UID)
	assert.Equal(t, "usr-1", c.Subject)
	assert.Equal(t, "admin", c.Role)
	assert.WithinDuration(t, now.Add(time.Hour), c.ExpiresAt.Time, time.Second)
}

func TestJWTer_Expired(t *testing.T) {
	now := time.Now()
	tok, err := newJWTer(now).Issue("usr-1", "admin")
	require.NoError(t, err)

	later := newJWTer(now.Add(2 * time.Hour))
	_, err = later.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_WrongSecretOrIssuer(t *testing.T) {
	now := time.Now()
	tok, err := newJWTer(now).Issue("usr-1", "admin")
	require.NoError(t, err)

	other := newJWTer(now)
	other.Secret = []byte("another-secret")
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other = newJWTer(now)
	other.Issuer = "someone-else"
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newJWTer(now).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTer_EmptySecret(t *testing.T) {
	j := newJWTer(time.Now())
	j.Secret = nil
	_, err := j.Issue("usr-1", "admin")
	assert.Error(t, err)
}
