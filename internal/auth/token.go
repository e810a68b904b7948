package auth

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Session token format. Eight characters over a 62-symbol alphabet give
// 62^8 ≈ 2.18e14 possible tokens, so insert collisions are a safety net the
// issuing loop handles, not a throughput concern.
const (
	TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	TokenLength   = 8
)

// TokenSource draws random tokens from an alphabet. The session manager
// takes one as a dependency so tests can script collisions deterministically.
type TokenSource interface {
	Generate(alphabet string, length int) (string, error)
}

// RandomTokenSource is the production TokenSource, backed by crypto/rand.
type RandomTokenSource struct{}

// Generate implements TokenSource.
func (RandomTokenSource) Generate(alphabet string, length int) (string, error) {
	token, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// ValidToken reports whether a candidate token has the expected length and
// contains only ASCII alphanumeric bytes. Anything else is rejected before a
// store lookup is attempted.
func ValidToken(token string, length int) bool {
	if len(token) != length {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
