package timerecord

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"timetracker/internal/authz"
	"timetracker/internal/clientjob"
	"timetracker/internal/employee"
	employeeerrors "timetracker/internal/employee/errors"
	"timetracker/internal/shared/timeutil"
	timerecorderrors "timetracker/internal/timerecord/errors"
)

type fakeRepo struct {
	withTxFn         func(tx *sql.Tx) Repository
	createFn         func(ctx context.Context, t *TimeRecord) error
	updateFn         func(ctx context.Context, t *TimeRecord) error
	findByIDFn       func(ctx context.Context, id string) (*TimeRecord, error)
	findOpenFn       func(ctx context.Context, employeeID string) (*TimeRecord, error)
	findCompletedFn  func(ctx context.Context, employeeID string, dr timeutil.DateRange) ([]TimeRecord, error)
	findUnapprovedFn func(ctx context.Context, clientID int64, dr timeutil.DateRange) ([]TimeRecord, error)
	createApprovalFn func(ctx context.Context, a *TimeRecordApproval) error
	hasOpenFn        func(ctx context.Context, employeeID string) (bool, error)
	totalWorkedFn    func(ctx context.Context, employeeID string) (time.Duration, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, t *TimeRecord) error {
	return f.createFn(ctx, t)
}
func (f *fakeRepo) Update(ctx context.Context, t *TimeRecord) error {
	return f.updateFn(ctx, t)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*TimeRecord, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindOpenByEmployee(ctx context.Context, employeeID string) (*TimeRecord, error) {
	return f.findOpenFn(ctx, employeeID)
}
func (f *fakeRepo) FindCompletedByEmployee(ctx context.Context, employeeID string, dr timeutil.DateRange) ([]TimeRecord, error) {
	return f.findCompletedFn(ctx, employeeID, dr)
}
func (f *fakeRepo) FindUnapprovedByClient(ctx context.Context, clientID int64, dr timeutil.DateRange) ([]TimeRecord, error) {
	return f.findUnapprovedFn(ctx, clientID, dr)
}
func (f *fakeRepo) CreateApproval(ctx context.Context, a *TimeRecordApproval) error {
	return f.createApprovalFn(ctx, a)
}
func (f *fakeRepo) HasOpenRecord(ctx context.Context, employeeID string) (bool, error) {
	return f.hasOpenFn(ctx, employeeID)
}
func (f *fakeRepo) TotalWorked(ctx context.Context, employeeID string) (time.Duration, error) {
	return f.totalWorkedFn(ctx, employeeID)
}

type fakeEmployees struct {
	findByIDFn     func(ctx context.Context, id string) (*employee.Employee, error)
	findByNumberFn func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error)
}

func (f *fakeEmployees) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeEmployees) FindByEmployeeIDAndClient(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
	return f.findByNumberFn(ctx, employeeID, clientID)
}

type fakeJobs struct {
	findFn func(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error)
}

func (f *fakeJobs) FindByIDAndClient(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error) {
	return f.findFn(ctx, id, clientID)
}

type fakeAuthz struct {
	canClockFn   func(userID string, e authz.EmployeeView) bool
	canApproveFn func(ctx context.Context, userID string, clientID int64) (bool, error)
	canViewFn    func(ctx context.Context, userID string, e authz.EmployeeView) (bool, error)
}

func (f *fakeAuthz) CanClock(userID string, e authz.EmployeeView) bool {
	return f.canClockFn(userID, e)
}
func (f *fakeAuthz) CanApproveTimeRecord(ctx context.Context, userID string, clientID int64) (bool, error) {
	return f.canApproveFn(ctx, userID, clientID)
}
func (f *fakeAuthz) CanViewEmployee(ctx context.Context, userID string, e authz.EmployeeView) (bool, error) {
	return f.canViewFn(ctx, userID, e)
}

func selfAuthz() *fakeAuthz {
	return &fakeAuthz{
		canClockFn: func(userID string, e authz.EmployeeView) bool {
			return userID == e.UserID && e.IsActive
		},
		canApproveFn: func(ctx context.Context, userID string, clientID int64) (bool, error) {
			return true, nil
		},
		canViewFn: func(ctx context.Context, userID string, e authz.EmployeeView) (bool, error) {
			return true, nil
		},
	}
}

func activePlacement(clientID int64) *employee.Employee {
	return &employee.Employee{
		ID:         uuid.New(),
		EmployeeID: 456789,
		ClientID:   clientID,
		AgencyID:   uuid.New(),
		UserID:     uuid.New(),
		IsActive:   true,
	}
}

func payJob(clientID int64, rate string) *clientjob.ClientJob {
	return &clientjob.ClientJob{
		ID:       uuid.New(),
		ClientID: clientID,
		Name:     "Assembly",
		PayRate:  decimal.RequireFromString(rate),
		Slug:     "assembly",
	}
}

func TestService_ClockIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	job := payJob(42, "20.00")
	ctx := context.Background()

	var saved TimeRecord
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.hasOpenFn = func(ctx context.Context, employeeID string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, rec *TimeRecord) error { saved = *rec; return nil }

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			assert.Equal(t, e.EmployeeID, employeeID)
			assert.Equal(t, e.ClientID, clientID)
			return e, nil
		},
	}
	jobs := &fakeJobs{
		findFn: func(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error) {
			return job, nil
		},
	}

	svc := NewService(db, repo, employees, jobs, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockIn(ctx, e.UserID.String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: job.ID.String()})

	assert.NoError(t, err)
	assert.Equal(t, "20.00", resp.PayRate)
	assert.Equal(t, job.ID.String(), resp.JobID)
	assert.Empty(t, resp.TimeEnd)
	assert.Equal(t, job.PayRate, saved.PayRate)
	assert.Equal(t, e.ID, saved.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_AlreadyClockedIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	job := payJob(42, "20.00")

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.hasOpenFn = func(ctx context.Context, employeeID string) (bool, error) { return true, nil }

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}
	jobs := &fakeJobs{
		findFn: func(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error) {
			return job, nil
		},
	}

	svc := NewService(db, repo, employees, jobs, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: job.ID.String()})

	assert.ErrorIs(t, err, timerecorderrors.ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_RaceLoserGetsAlreadyClockedIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	job := payJob(42, "20.00")

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.hasOpenFn = func(ctx context.Context, employeeID string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, rec *TimeRecord) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_record_open"}
	}

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}
	jobs := &fakeJobs{
		findFn: func(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error) {
			return job, nil
		},
	}

	svc := NewService(db, repo, employees, jobs, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: job.ID.String()})

	assert.ErrorIs(t, err, timerecorderrors.ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_InactiveEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	e.IsActive = false

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, &fakeRepo{}, employees, &fakeJobs{}, selfAuthz())

	_, err := svc.ClockIn(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: uuid.New().String()})
	assert.ErrorIs(t, err, timerecorderrors.ErrInactiveEmployee)
}

func TestService_ClockIn_OtherUserSeesNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, &fakeRepo{}, employees, &fakeJobs{}, selfAuthz())

	_, err := svc.ClockIn(context.Background(), uuid.New().String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: uuid.New().String()})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_ClockIn_InvalidJob(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}
	jobs := &fakeJobs{
		findFn: func(ctx context.Context, id string, clientID int64) (*clientjob.ClientJob, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(db, &fakeRepo{}, employees, jobs, selfAuthz())

	_, err := svc.ClockIn(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID, ClockInRequest{JobID: uuid.New().String()})
	assert.ErrorIs(t, err, timerecorderrors.ErrInvalidJob)
}

func TestService_ClockOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	start := time.Now().UTC().Add(-2 * time.Hour)
	open := &TimeRecord{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		PayRate:    decimal.RequireFromString("20.00"),
		TimeStart:  start,
	}

	var saved TimeRecord
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findOpenFn = func(ctx context.Context, employeeID string) (*TimeRecord, error) { return open, nil }
	repo.updateFn = func(ctx context.Context, rec *TimeRecord) error { saved = *rec; return nil }

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockOut(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID)

	assert.NoError(t, err)
	assert.NotNil(t, saved.TimeEnd)
	assert.NotEmpty(t, resp.TimeEnd)
	assert.InDelta(t, 7200, resp.TotalTimeSeconds, 2)
	assert.Equal(t, "40.00", resp.ProjectedEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_NotClockedIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findOpenFn = func(ctx context.Context, employeeID string) (*TimeRecord, error) {
		return nil, gorm.ErrRecordNotFound
	}

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockOut(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID)

	assert.ErrorIs(t, err, timerecorderrors.ErrNotClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_DeactivatedMidShiftStillCloses(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	e.IsActive = false
	open := &TimeRecord{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		PayRate:    decimal.RequireFromString("20.00"),
		TimeStart:  time.Now().UTC().Add(-2 * time.Hour),
	}

	var saved TimeRecord
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findOpenFn = func(ctx context.Context, employeeID string) (*TimeRecord, error) { return open, nil }
	repo.updateFn = func(ctx context.Context, rec *TimeRecord) error { saved = *rec; return nil }

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockOut(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID)

	assert.NoError(t, err)
	assert.NotNil(t, saved.TimeEnd)
	assert.InDelta(t, 7200, resp.TotalTimeSeconds, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_OtherUserSeesNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, &fakeRepo{}, employees, &fakeJobs{}, selfAuthz())

	_, err := svc.ClockOut(context.Background(), uuid.New().String(), e.ClientID, e.EmployeeID)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func completedRecord(e *employee.Employee, worked time.Duration, rate string) *TimeRecord {
	start := time.Now().UTC().Add(-worked - time.Hour)
	end := start.Add(worked)
	return &TimeRecord{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		PayRate:    decimal.RequireFromString(rate),
		TimeStart:  start,
		TimeEnd:    &end,
	}
}

func TestService_Approve(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rec := completedRecord(e, 2*time.Hour, "20.00")
	admin := uuid.New().String()

	var savedApproval TimeRecordApproval
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*TimeRecord, error) { return rec, nil }
	repo.createApprovalFn = func(ctx context.Context, a *TimeRecordApproval) error {
		savedApproval = *a
		return nil
	}

	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return e, nil },
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	resp, err := svc.Approve(context.Background(), admin, rec.ID.String())

	assert.NoError(t, err)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, rec.ID, savedApproval.TimeRecordID)
	assert.Equal(t, admin, savedApproval.UserID.String())
}

func TestService_Approve_AlreadyApproved(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rec := completedRecord(e, 2*time.Hour, "20.00")
	rec.Approval = &TimeRecordApproval{
		ID:           uuid.New(),
		TimeRecordID: rec.ID,
		UserID:       uuid.New(),
		TimeApproved: time.Now().UTC(),
	}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*TimeRecord, error) { return rec, nil }

	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return e, nil },
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	_, err := svc.Approve(context.Background(), uuid.New().String(), rec.ID.String())
	assert.ErrorIs(t, err, timerecorderrors.ErrAlreadyApproved)
}

func TestService_Approve_OpenRecord(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rec := &TimeRecord{
		ID:         uuid.New(),
		EmployeeID: e.ID,
		PayRate:    decimal.RequireFromString("20.00"),
		TimeStart:  time.Now().UTC(),
	}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*TimeRecord, error) { return rec, nil }

	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return e, nil },
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	_, err := svc.Approve(context.Background(), uuid.New().String(), rec.ID.String())
	assert.ErrorIs(t, err, timerecorderrors.ErrRecordOpen)
}

func TestService_Approve_NonAdminSeesNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rec := completedRecord(e, time.Hour, "20.00")

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*TimeRecord, error) { return rec, nil }

	employees := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) { return e, nil },
	}

	az := selfAuthz()
	az.canApproveFn = func(ctx context.Context, userID string, clientID int64) (bool, error) {
		return false, nil
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, az)

	_, err := svc.Approve(context.Background(), uuid.New().String(), rec.ID.String())
	assert.ErrorIs(t, err, timerecorderrors.ErrRecordNotFound)
}

func TestService_Summary(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rows := []TimeRecord{
		*completedRecord(e, 2*time.Hour, "20.00"),
		*completedRecord(e, 30*time.Minute, "10.00"),
	}

	repo := &fakeRepo{}
	repo.findCompletedFn = func(ctx context.Context, employeeID string, dr timeutil.DateRange) ([]TimeRecord, error) {
		return rows, nil
	}

	employees := &fakeEmployees{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*employee.Employee, error) {
			return e, nil
		},
	}

	svc := NewService(db, repo, employees, &fakeJobs{}, selfAuthz())

	resp, err := svc.Summary(context.Background(), e.UserID.String(), e.ClientID, e.EmployeeID, timeutil.DateRange{})

	assert.NoError(t, err)
	assert.Equal(t, int64((2*time.Hour + 30*time.Minute).Seconds()), resp.TotalTimeSeconds)
	assert.Equal(t, "45.00", resp.ProjectedEarnings)
	assert.Equal(t, 2, resp.RecordCount)
}

func TestService_ListUnapproved_NonAdminSeesNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	az := selfAuthz()
	az.canApproveFn = func(ctx context.Context, userID string, clientID int64) (bool, error) {
		return false, nil
	}

	svc := NewService(db, &fakeRepo{}, &fakeEmployees{}, &fakeJobs{}, az)

	_, err := svc.ListUnapproved(context.Background(), uuid.New().String(), 42, timeutil.DateRange{})
	assert.ErrorIs(t, err, timerecorderrors.ErrRecordNotFound)
}

func TestService_ListUnapproved(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	e := activePlacement(42)
	rows := []TimeRecord{*completedRecord(e, time.Hour, "15.00")}

	repo := &fakeRepo{}
	repo.findUnapprovedFn = func(ctx context.Context, clientID int64, dr timeutil.DateRange) ([]TimeRecord, error) {
		assert.Equal(t, int64(42), clientID)
		return rows, nil
	}

	svc := NewService(db, repo, &fakeEmployees{}, &fakeJobs{}, selfAuthz())

	resp, err := svc.ListUnapproved(context.Background(), uuid.New().String(), 42, timeutil.DateRange{})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.False(t, resp[0].IsApproved)
	assert.Equal(t, "15.00", resp[0].ProjectedEarnings)
}
