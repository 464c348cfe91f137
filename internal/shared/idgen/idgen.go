package idgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"timetracker/internal/shared/apperror"
)

// MaxDigits is the widest ID that fits an int64 without overflowing
// the [10^(n-1), 10^n - 1] range arithmetic.
const MaxDigits = 18

var (
	ErrInvalidDigits = apperror.New(
		apperror.CodeInvalidInput,
		"The number of digits in the ID must be between 1 and 18",
		http.StatusBadRequest,
	)
	ErrExhaustedAttempts = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate a unique identifier",
		http.StatusInternalServerError,
	)
)

// Options control the collision-retry loop in GenerateUniqueID. The
// thresholds only change how loudly we log; MaxAttempts is the hard bound.
type Options struct {
	NoticeAttempts  int
	WarningAttempts int
	MaxAttempts     int
	FieldName       string
}

func DefaultOptions() Options {
	return Options{
		NoticeAttempts:  10,
		WarningAttempts: 100,
		MaxAttempts:     1000,
		FieldName:       "id",
	}
}

// ExistsFunc reports whether a candidate value is already taken.
type ExistsFunc func(ctx context.Context, value int64) (bool, error)

// GenerateNumericID returns a uniformly random integer with exactly
// numDigits decimal digits (leading digit nonzero), drawn from a
// cryptographically secure source.
func GenerateNumericID(numDigits int) (int64, error) {
	if numDigits < 1 || numDigits > MaxDigits {
		return 0, ErrInvalidDigits
	}

	lower := int64(1)
	for i := 1; i < numDigits; i++ {
		lower *= 10
	}
	upper := lower*10 - 1

	// rand.Int draws from [0, bound), so offset by the lower bound.
	n, err := rand.Int(rand.Reader, big.NewInt(upper-lower+1))
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInternalError,
			"Failed to read random source", http.StatusInternalServerError)
	}

	return n.Int64() + lower, nil
}

// GenerateUniqueID draws numeric candidates until one passes the existence
// check. The returned value is unique only at check time; callers must
// still enforce uniqueness at the storage layer and retry on a duplicate
// key failure.
func GenerateUniqueID(ctx context.Context, digits int, exists ExistsFunc, opts Options) (int64, error) {
	logger := zap.L().Named("idgen")

	value, err := GenerateNumericID(digits)
	if err != nil {
		return 0, err
	}

	attempts := 1
	for {
		taken, err := exists(ctx, value)
		if err != nil {
			return 0, err
		}
		if !taken {
			return value, nil
		}

		switch attempts {
		case opts.NoticeAttempts:
			logger.Info("unique ID generation is taking unusually long",
				zap.String("field", opts.FieldName),
				zap.Int("attempts", attempts),
			)
		case opts.WarningAttempts:
			logger.Warn("unique ID generation is taking unusually long",
				zap.String("field", opts.FieldName),
				zap.Int("attempts", attempts),
			)
		case opts.MaxAttempts:
			logger.Error("bailing out of unique ID generation",
				zap.String("field", opts.FieldName),
				zap.Int("attempts", attempts),
			)
			return 0, ErrExhaustedAttempts
		}

		value, err = GenerateNumericID(digits)
		if err != nil {
			return 0, err
		}
		attempts++
	}
}
