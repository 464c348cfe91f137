package clienterrors

import (
	"net/http"

	"timetracker/internal/shared/apperror"
)

var (
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"Client not found",
		http.StatusNotFound,
	)
	ErrClientSlugTaken = apperror.New(
		apperror.CodeConflict,
		"A client with the same slug already exists",
		http.StatusConflict,
	)
	ErrClientIDTaken = apperror.New(
		apperror.CodeConflict,
		"A client with the same ID already exists",
		http.StatusConflict,
	)
	ErrAdminAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"The user is already an administrator of this client",
		http.StatusConflict,
	)
	ErrInviteNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invitation not found",
		http.StatusNotFound,
	)
)
