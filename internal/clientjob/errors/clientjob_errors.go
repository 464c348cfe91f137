package clientjoberrors

import (
	"fmt"
	"net/http"

	"timetracker/internal/shared/apperror"
)

var (
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"Job not found",
		http.StatusNotFound,
	)
	ErrJobSlugTaken = apperror.New(
		apperror.CodeConflict,
		"A job with the same name already exists for this client",
		http.StatusConflict,
	)
	ErrInvalidPayRate = apperror.New(
		apperror.CodeInvalidInput,
		"Pay rate must be a non-negative decimal with at most two places",
		http.StatusBadRequest,
	)
)

// NameTooSimilar is the near-duplicate rejection: the new name slugifies
// to the same value as an existing job of the same client.
func NameTooSimilar(name, existingName string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("The name %q is too similar to the name of the existing job %q", name, existingName),
		http.StatusConflict,
	)
}
