package session

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) *TokenSigner {
	t.Helper()
	signer, err := NewTokenSigner("test-secret", "HS256")
	require.NoError(t, err)
	return signer
}

func TestNewTokenSigner(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{name: "valid HS256", secret: "secret", algorithm: "HS256", wantErr: false},
		{name: "valid HS512", secret: "secret", algorithm: "HS512", wantErr: false},
		{name: "empty secret", secret: "", algorithm: "HS256", wantErr: true},
		{name: "unknown algorithm", secret: "secret", algorithm: "XX999", wantErr: true},
		{name: "non-HMAC algorithm", secret: "secret", algorithm: "RS256", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenSigner(tt.secret, tt.algorithm)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenSigner_SignAndVerify(t *testing.T) {
	signer := newTestSigner(t)

	issuedAt := time.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(time.Hour)

	token, err := signer.Sign("user@example.com", issuedAt, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", claims.Owner)
	assert.WithinDuration(t, issuedAt, claims.IssuedAt, time.Second)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestTokenSigner_UniqueTokens(t *testing.T) {
	signer := newTestSigner(t)

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(time.Hour)

	first, err := signer.Sign("user@example.com", issuedAt, expiresAt)
	require.NoError(t, err)
	second, err := signer.Sign("user@example.com", issuedAt, expiresAt)
	require.NoError(t, err)

	// jti makes every minted token distinct even for identical inputs
	assert.NotEqual(t, first, second)
}

func TestTokenSigner_VerifyExpired(t *testing.T) {
	signer := newTestSigner(t)

	issuedAt := time.Now().Add(-2 * time.Hour)
	token, err := signer.Sign("user@example.com", issuedAt, issuedAt.Add(time.Hour))
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSigner_VerifyTampered(t *testing.T) {
	signer := newTestSigner(t)

	token, err := signer.Sign("user@example.com", time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = signer.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSigner_VerifyWrongSecret(t *testing.T) {
	signer := newTestSigner(t)

	other, err := NewTokenSigner("other-secret", "HS256")
	require.NoError(t, err)

	token, err := other.Sign("user@example.com", time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSigner_VerifyGarbage(t *testing.T) {
	signer := newTestSigner(t)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := signer.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenSigner_VerifyWrongType(t *testing.T) {
	signer := newTestSigner(t)

	// A structurally valid token minted for a different purpose must be
	// rejected even though the signature verifies.
	claims := jwtlib.MapClaims{
		"sub":  "user@example.com",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
		"type": "something_else",
	}
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
