package timerecord

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"timetracker/internal/authz"
	"timetracker/internal/clientjob"
	"timetracker/internal/employee"
	employeeerrors "timetracker/internal/employee/errors"
	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/timeutil"
	timerecorderrors "timetracker/internal/timerecord/errors"
)

// Authorizer is the slice of the authorization service this package
// needs.
type Authorizer interface {
	CanClock(userID string, e authz.EmployeeView) bool
	CanApproveTimeRecord(ctx context.Context, userID string, clientID int64) (bool, error)
	CanViewEmployee(ctx context.Context, userID string, e authz.EmployeeView) (bool, error)
}

// EmployeeDirectory resolves placements. The employee repository
// satisfies it.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindByEmployeeIDAndClient(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error)
}

// JobDirectory resolves jobs within one client. The client job
// repository satisfies it.
type JobDirectory interface {
	FindByIDAndClient(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error)
}

//go:generate mockgen -source=timerecord_service.go -destination=mock/timerecord_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, actorID string, clientID, employeeID int64, req ClockInRequest) (TimeRecordResponse, error)
	ClockOut(ctx context.Context, actorID string, clientID, employeeID int64) (TimeRecordResponse, error)
	Approve(ctx context.Context, actorID, recordID string) (TimeRecordResponse, error)
	ListUnapproved(ctx context.Context, actorID string, clientID int64, dr timeutil.DateRange) ([]TimeRecordResponse, error)
	ListForEmployee(ctx context.Context, actorID string, clientID, employeeID int64, dr timeutil.DateRange) ([]TimeRecordResponse, error)
	Summary(ctx context.Context, actorID string, clientID, employeeID int64, dr timeutil.DateRange) (TimeSummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	jobs      JobDirectory
	authz     Authorizer
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	jobs JobDirectory,
	authorizer Authorizer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timerecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timerecord.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		jobs:      jobs,
		authz:     authorizer,
		logger:    l,
	}
}

// ClockIn opens a work period. The check for an existing open record
// and the insert run inside one transaction; a concurrent clock-in
// that slips past the check still loses on the open-record index and
// surfaces as AlreadyClockedIn.
func (s *service) ClockIn(ctx context.Context, actorID string, clientID, employeeID int64, req ClockInRequest) (TimeRecordResponse, error) {
	e, err := s.findClockable(ctx, actorID, clientID, employeeID)
	if err != nil {
		return TimeRecordResponse{}, err
	}

	job, err := s.jobs.FindByIDAndClient(ctx, req.JobID, e.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeRecordResponse{}, timerecorderrors.ErrInvalidJob
		}
		return TimeRecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	open, err := qtx.HasOpenRecord(ctx, e.ID.String())
	if err != nil {
		return TimeRecordResponse{}, err
	}
	if open {
		return TimeRecordResponse{}, timerecorderrors.ErrAlreadyClockedIn
	}

	row := &TimeRecord{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		JobID:      &job.ID,
		PayRate:    job.PayRate,
		TimeStart:  time.Now().UTC(),
	}
	if err := qtx.Create(ctx, row); err != nil {
		return TimeRecordResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TimeRecordResponse{}, err
	}

	s.logger.Info("clock in",
		zap.String("record_id", row.ID.String()),
		zap.String("employee", e.ID.String()),
		zap.String("job", job.ID.String()),
	)
	return mapToResponse(*row), nil
}

// ClockOut completes the employee's open work period. Unlike clock-in
// it does not require an active placement: a worker deactivated
// mid-shift must still be able to close the record, or the hours stay
// open and never reach totals or the approval queue.
func (s *service) ClockOut(ctx context.Context, actorID string, clientID, employeeID int64) (TimeRecordResponse, error) {
	e, err := s.findOwnPlacement(ctx, actorID, clientID, employeeID)
	if err != nil {
		return TimeRecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindOpenByEmployee(ctx, e.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeRecordResponse{}, timerecorderrors.ErrNotClockedIn
		}
		return TimeRecordResponse{}, err
	}

	now := time.Now().UTC()
	row.TimeEnd = &now
	if err := qtx.Update(ctx, row); err != nil {
		return TimeRecordResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return TimeRecordResponse{}, err
	}

	s.logger.Info("clock out",
		zap.String("record_id", row.ID.String()),
		zap.String("employee", e.ID.String()),
		zap.Duration("worked", row.TotalTime()),
	)
	return mapToResponse(*row), nil
}

// Approve accepts a completed record. Approving twice is an error, in
// contrast to employee approval which tolerates repeats.
func (s *service) Approve(ctx context.Context, actorID, recordID string) (TimeRecordResponse, error) {
	rec, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return TimeRecordResponse{}, mapRepositoryError(err)
	}

	e, err := s.employees.FindByID(ctx, rec.EmployeeID.String())
	if err != nil {
		return TimeRecordResponse{}, err
	}

	ok, err := s.authz.CanApproveTimeRecord(ctx, actorID, e.ClientID)
	if err != nil {
		return TimeRecordResponse{}, err
	}
	if !ok {
		return TimeRecordResponse{}, timerecorderrors.ErrRecordNotFound
	}

	if rec.TimeEnd == nil {
		return TimeRecordResponse{}, timerecorderrors.ErrRecordOpen
	}
	if rec.Approval != nil {
		return TimeRecordResponse{}, timerecorderrors.ErrAlreadyApproved
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TimeRecordResponse{}, apperror.ErrInvalidInput
	}

	approval := &TimeRecordApproval{
		ID:           uuid.New(),
		TimeRecordID: rec.ID,
		UserID:       actorUUID,
		TimeApproved: time.Now().UTC(),
	}
	if err := s.repo.CreateApproval(ctx, approval); err != nil {
		return TimeRecordResponse{}, mapRepositoryError(err)
	}
	rec.Approval = approval

	s.logger.Info("time record approved",
		zap.String("record_id", recordID),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ListUnapproved(ctx context.Context, actorID string, clientID int64, dr timeutil.DateRange) ([]TimeRecordResponse, error) {
	ok, err := s.authz.CanApproveTimeRecord(ctx, actorID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, timerecorderrors.ErrRecordNotFound
	}

	rows, err := s.repo.FindUnapprovedByClient(ctx, clientID, dr)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(rows), nil
}

func (s *service) ListForEmployee(ctx context.Context, actorID string, clientID, employeeID int64, dr timeutil.DateRange) ([]TimeRecordResponse, error) {
	e, err := s.findVisible(ctx, actorID, clientID, employeeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindCompletedByEmployee(ctx, e.ID.String(), dr)
	if err != nil {
		return nil, err
	}
	return mapAllToResponse(rows), nil
}

// Summary totals an employee's completed records. The duration is
// rounded to pay blocks; earnings stay exact per record.
func (s *service) Summary(ctx context.Context, actorID string, clientID, employeeID int64, dr timeutil.DateRange) (TimeSummaryResponse, error) {
	e, err := s.findVisible(ctx, actorID, clientID, employeeID)
	if err != nil {
		return TimeSummaryResponse{}, err
	}

	rows, err := s.repo.FindCompletedByEmployee(ctx, e.ID.String(), dr)
	if err != nil {
		return TimeSummaryResponse{}, err
	}

	var total time.Duration
	earnings := decimal.Zero
	for _, rec := range rows {
		total += rec.TotalTime()
		earnings = earnings.Add(rec.ProjectedEarnings())
	}

	return TimeSummaryResponse{
		TotalTimeSeconds:  int64(timeutil.RoundTimeWorked(total).Seconds()),
		ProjectedEarnings: earnings.StringFixed(2),
		RecordCount:       len(rows),
	}, nil
}

// findClockable loads the placement for clock-in and enforces that
// the actor is the placed user. Other users get NotFound; the placed
// user of an inactive placement gets InactiveEmployee.
func (s *service) findClockable(ctx context.Context, actorID string, clientID, employeeID int64) (*employee.Employee, error) {
	e, err := s.findOwnPlacement(ctx, actorID, clientID, employeeID)
	if err != nil {
		return nil, err
	}

	if !s.authz.CanClock(actorID, employeeView(e)) {
		return nil, timerecorderrors.ErrInactiveEmployee
	}
	return e, nil
}

// findOwnPlacement loads the placement and enforces only that the
// actor is the placed user, answering NotFound for anyone else.
func (s *service) findOwnPlacement(ctx context.Context, actorID string, clientID, employeeID int64) (*employee.Employee, error) {
	e, err := s.employees.FindByEmployeeIDAndClient(ctx, employeeID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	if actorID != e.UserID.String() {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *service) findVisible(ctx context.Context, actorID string, clientID, employeeID int64) (*employee.Employee, error) {
	e, err := s.employees.FindByEmployeeIDAndClient(ctx, employeeID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	ok, err := s.authz.CanViewEmployee(ctx, actorID, employeeView(e))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return e, nil
}

func employeeView(e *employee.Employee) authz.EmployeeView {
	return authz.EmployeeView{
		UserID:   e.UserID.String(),
		ClientID: e.ClientID,
		AgencyID: e.AgencyID.String(),
		IsActive: e.IsActive,
	}
}

func mapToResponse(t TimeRecord) TimeRecordResponse {
	resp := TimeRecordResponse{
		ID:                t.ID.String(),
		EmployeeID:        t.EmployeeID.String(),
		PayRate:           t.PayRate.StringFixed(2),
		TimeStart:         t.TimeStart.Format(time.RFC3339),
		TotalTimeSeconds:  int64(t.TotalTime().Seconds()),
		ProjectedEarnings: t.ProjectedEarnings().StringFixed(2),
		IsApproved:        t.IsApproved(),
	}
	if t.JobID != nil {
		resp.JobID = t.JobID.String()
	}
	if t.TimeEnd != nil {
		resp.TimeEnd = t.TimeEnd.Format(time.RFC3339)
	}
	return resp
}

func mapAllToResponse(rows []TimeRecord) []TimeRecordResponse {
	res := make([]TimeRecordResponse, len(rows))
	for i, t := range rows {
		res[i] = mapToResponse(t)
	}
	return res
}
