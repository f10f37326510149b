package security

import "time"

// Test signing key for unit tests only. Do not use in production.
const testSigningKey = "unit-test-signing-key-0123456789"

// NewTestTokenProvider returns a TokenProvider using the embedded test key.
// For unit tests only. Panics on construction failure, which cannot happen
// with the fixed arguments.
func NewTestTokenProvider() *TokenProvider {
	p, err := NewTokenProvider([]byte(testSigningKey), "HS256", "test-issuer", 15*time.Minute)
	if err != nil {
		panic(err)
	}
	return p
}
