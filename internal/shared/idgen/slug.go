package idgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	// SlugKeyLength is the length of the random suffix appended to a slug
	// when the plain slugified value collides.
	SlugKeyLength = 6

	// TokenLength is the length of single-use tokens such as admin
	// invitation tokens.
	TokenLength = 16

	// slugMaxAttempts bounds the collision-retry loop. The odds of a
	// random suffix colliding are small enough that hitting this bound
	// means the existence check itself is broken.
	slugMaxAttempts = 1000
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SlugExistsFunc reports whether a candidate slug is already taken.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// GenerateSlug slugifies value, truncates it to maxLen, and appends a
// random suffix until the result passes the existence check.
func GenerateSlug(ctx context.Context, value string, maxLen int, exists SlugExistsFunc) (string, error) {
	logger := zap.L().Named("idgen")
	logger.Debug("generating unique slug", zap.String("value", value))

	base := slug.Make(value)
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	candidate := base
	for attempts := 1; attempts <= slugMaxAttempts; attempts++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}

		logger.Debug("slug is not unique", zap.String("slug", candidate))
		candidate = fmt.Sprintf("%s-%s", base, RandomString(SlugKeyLength))
	}

	return "", ErrExhaustedAttempts
}

// GenerateToken returns a random 16-character alphanumeric string.
func GenerateToken() string {
	return RandomString(TokenLength)
}

// RandomString returns a random alphanumeric string of length n using a
// cryptographically secure source.
func RandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken, which is not recoverable here.
			panic(fmt.Sprintf("idgen: read random source: %v", err))
		}
		out[i] = tokenAlphabet[idx.Int64()]
	}
	return string(out)
}
