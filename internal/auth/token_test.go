package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingapi/internal/config"
	"bookingapi/internal/model"
)

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer(config.AuthConfig{JWTSecret: "s3cret", JWTIssuer: "bookingapi", JWTTTL: time.Hour})
	require.NoError(t, err)
	return ti
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.AuthConfig{})
	assert.Error(t, err)
}

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	ti := newTestIssuer(t)
	u := &model.User{ID: "u-1", Email: "ann@example.com"}

	tok, exp, err := ti.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ti.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "bookingapi", claims.Issuer)
}

func TestTokenIssuer_ParseRejects(t *testing.T) {
	ti := newTestIssuer(t)
	u := &model.User{ID: "u-1"}

	expired := newTestIssuer(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, _, err := expired.Issue(u)
	require.NoError(t, err)

	other, err := NewTokenIssuer(config.AuthConfig{JWTSecret: "other", JWTIssuer: "bookingapi"})
	require.NoError(t, err)
	forged, _, err := other.Issue(u)
	require.NoError(t, err)

	foreign, err := NewTokenIssuer(config.AuthConfig{JWTSecret: "s3cret", JWTIssuer: "someone-else"})
	require.NoError(t, err)
	wrongIssuer, _, err := foreign.Issue(u)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "bookingapi", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expiredTok},
		{"wrong secret", forged},
		{"wrong issuer", wrongIssuer},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ti.Parse(tt.token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
