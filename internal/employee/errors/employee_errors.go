package employeeerrors

import (
	"net/http"

	"timetracker/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeIDTaken = apperror.New(
		apperror.CodeConflict,
		"An employee with the same number already exists at this client",
		http.StatusConflict,
	)
	ErrContractNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"The user does not have an approved contract with this agency",
		http.StatusUnprocessableEntity,
	)
)
