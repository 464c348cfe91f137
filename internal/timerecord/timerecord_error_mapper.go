package timerecord

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	timerecorderrors "timetracker/internal/timerecord/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timerecorderrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_time_record_open":
				return timerecorderrors.ErrAlreadyClockedIn
			case "uq_time_record_approval":
				return timerecorderrors.ErrAlreadyApproved
			}
		}
	}

	return err
}
