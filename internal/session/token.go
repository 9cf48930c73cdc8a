package session

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenType is embedded in every bearer token so that tokens minted for other
// purposes can never be replayed against the API surface.
const tokenType = "api_access"

// TokenClaims holds the verified payload of a bearer token.
type TokenClaims struct {
	Owner     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner mints and verifies the gateway's own bearer tokens. Tokens are
// self-describing (owner and expiry in the signed payload) but only usable
// while a matching store entry exists.
type TokenSigner struct {
	secret []byte
	method jwtlib.SigningMethod
	alg    string
}

// NewTokenSigner creates a signer for the given shared secret and HMAC
// algorithm name (e.g. "HS256").
func NewTokenSigner(secret, algorithm string) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}

	method := jwtlib.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}

	return &TokenSigner{
		secret: []byte(secret),
		method: method,
		alg:    algorithm,
	}, nil
}

// Sign mints a bearer token for owner with the given validity window.
// Uniqueness comes from the jti claim, not from store-side checks.
func (s *TokenSigner) Sign(owner string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwtlib.MapClaims{
		"sub":  owner,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
		"jti":  uuid.New().String(),
		"type": tokenType,
	}

	token, err := jwtlib.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign bearer token: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature and embedded expiry and returns its
// claims. It touches no shared state, so a forged token is rejected before
// any store lookup can act as an existence oracle.
func (s *TokenSigner) Verify(rawToken string) (*TokenClaims, error) {
	parsed, err := jwtlib.Parse(rawToken, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{s.alg}))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if typ, _ := claims["type"].(string); typ != tokenType {
		return nil, ErrInvalidToken
	}

	owner, _ := claims["sub"].(string)
	if owner == "" {
		return nil, ErrInvalidToken
	}

	iat, err := claims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		Owner:     owner,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}
