package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	tok, err := issuer.Issue(42, "ana@fleet.test", []string{"ROLE_ADMIN"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now()))

	claims, err := issuer.Parse(tok.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "ana@fleet.test", claims.Email)
	assert.True(t, claims.HasAuthority("ROLE_ADMIN"))
	assert.False(t, claims.HasAuthority("ROLE_USER"))
}

func TestTokenIssuer_Parse_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	tok, err := issuer.Issue(1, "", []string{"ROLE_USER"})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		with *TokenIssuer
	}{
		{name: "wrong key", raw: tok.Token, with: NewTokenIssuer("other-secret", time.Hour)},
		{name: "garbage", raw: "not.a.token", with: issuer},
		{name: "unsigned", raw: unsignedToken(t), with: issuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.with.Parse(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_Parse_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := issuer.Issue(1, "", nil)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now() }
	_, err = issuer.Parse(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return raw
}
