package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or invalid.
	ErrInvalidToken = errors.New("invalid token")
)

// AccessClaims holds JWT claims for the access token.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// TokenProvider issues and validates JWT access tokens signed with a symmetric
// key using an HMAC algorithm (HS256, HS384, or HS512).
type TokenProvider struct {
	key       []byte
	method    jwt.SigningMethod
	issuer    string
	accessTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with key using the named
// HMAC algorithm. issuer is set on claims and validated on every parse.
// Returns an error for an empty key or an unknown algorithm name.
func NewTokenProvider(key []byte, algorithm, issuer string, accessTTL time.Duration) (*TokenProvider, error) {
	if len(key) == 0 {
		return nil, errors.New("token provider: signing key must not be empty")
	}
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("token provider: unsupported signing algorithm %q", algorithm)
	}
	return &TokenProvider{
		key:       key,
		method:    method,
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// IssueAccess issues an access JWT for the given user. Returns the token
// string and its expiration time. The expiry is strictly in the future.
func (p *TokenProvider) IssueAccess(userID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(p.method, claims)
	token, err = t.SignedString(p.key)
	return token, expiresAt, err
}

// ValidateAccess parses and validates the access token (signature, exp, iss, sub).
// Returns the subject user ID, or ErrInvalidToken for any validation failure.
func (p *TokenProvider) ValidateAccess(tokenString string) (userID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		if token.Method.Alg() != p.method.Alg() {
			return nil, ErrInvalidToken
		}
		return p.key, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
