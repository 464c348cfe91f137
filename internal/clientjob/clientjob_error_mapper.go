package clientjob

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	clientjoberrors "timetracker/internal/clientjob/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return clientjoberrors.ErrJobNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_client_job_slug" {
			return clientjoberrors.ErrJobSlugTaken
		}
	}

	return err
}
