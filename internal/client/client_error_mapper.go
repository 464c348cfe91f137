package client

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	clienterrors "timetracker/internal/client/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return clienterrors.ErrClientNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "clients_pkey":
				return clienterrors.ErrClientIDTaken
			case "uq_client_slug":
				return clienterrors.ErrClientSlugTaken
			case "uq_client_admin":
				return clienterrors.ErrAdminAlreadyExists
			}
		}
	}

	return err
}

// isDuplicateKey reports whether err is a storage-level uniqueness
// violation, which the caller may resolve by regenerating identifiers.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
