package agencyerrors

import (
	"net/http"

	"timetracker/internal/shared/apperror"
)

var (
	ErrAgencyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Staffing agency not found",
		http.StatusNotFound,
	)
	ErrAgencySlugTaken = apperror.New(
		apperror.CodeConflict,
		"A staffing agency with the same slug already exists",
		http.StatusConflict,
	)
	ErrAlreadyContracted = apperror.New(
		apperror.CodeConflict,
		"The user is already contracted by this agency",
		http.StatusConflict,
	)
	ErrContractNotFound = apperror.New(
		apperror.CodeNotFound,
		"Agency employee not found",
		http.StatusNotFound,
	)
)
