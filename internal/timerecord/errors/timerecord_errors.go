package timerecorderrors

import (
	"net/http"

	"timetracker/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Time record not found",
		http.StatusNotFound,
	)
	ErrInactiveEmployee = apperror.New(
		apperror.CodeInvalidState,
		"Inactive employees cannot log hours",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"The employee is already clocked in",
		http.StatusConflict,
	)
	ErrNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"The employee is not clocked in",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidJob = apperror.New(
		apperror.CodeInvalidInput,
		"The job does not belong to the employee's client",
		http.StatusUnprocessableEntity,
	)
	ErrRecordOpen = apperror.New(
		apperror.CodeInvalidState,
		"An open time record cannot be approved",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyApproved = apperror.New(
		apperror.CodeConflict,
		"The time record is already approved",
		http.StatusConflict,
	)
)
