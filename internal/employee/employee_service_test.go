package employee

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"timetracker/internal/authz"
	employeeerrors "timetracker/internal/employee/errors"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, e *Employee) error
	updateFn       func(ctx context.Context, e *Employee) error
	findByIDFn     func(ctx context.Context, id string) (*Employee, error)
	findByNumberFn func(ctx context.Context, employeeID, clientID int64) (*Employee, error)
	findAllFn      func(ctx context.Context, clientID int64) ([]Employee, error)
	existsFn       func(ctx context.Context, clientID, employeeID int64) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error {
	return f.updateFn(ctx, e)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmployeeIDAndClient(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
	return f.findByNumberFn(ctx, employeeID, clientID)
}
func (f *fakeRepo) FindAllByClient(ctx context.Context, clientID int64) ([]Employee, error) {
	return f.findAllFn(ctx, clientID)
}
func (f *fakeRepo) ExistsByEmployeeID(ctx context.Context, clientID, employeeID int64) (bool, error) {
	return f.existsFn(ctx, clientID, employeeID)
}

type fakeAuthz struct {
	isClientAdminFn func(ctx context.Context, userID string, clientID int64) (bool, error)
	isAgencyAdminFn func(ctx context.Context, userID, agencyID string) (bool, error)
	canViewFn       func(ctx context.Context, userID string, e authz.EmployeeView) (bool, error)
}

func (f *fakeAuthz) IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error) {
	return f.isClientAdminFn(ctx, userID, clientID)
}
func (f *fakeAuthz) IsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error) {
	return f.isAgencyAdminFn(ctx, userID, agencyID)
}
func (f *fakeAuthz) CanViewEmployee(ctx context.Context, userID string, e authz.EmployeeView) (bool, error) {
	return f.canViewFn(ctx, userID, e)
}

type fakeContracts struct {
	approved bool
	err      error
}

func (f *fakeContracts) HasApprovedContract(ctx context.Context, agencyID, userID string) (bool, error) {
	return f.approved, f.err
}

type fakeTimes struct {
	open   bool
	worked time.Duration
}

func (f *fakeTimes) HasOpenRecord(ctx context.Context, employeeID string) (bool, error) {
	return f.open, nil
}
func (f *fakeTimes) TotalWorked(ctx context.Context, employeeID string) (time.Duration, error) {
	return f.worked, nil
}

func allowAll() *fakeAuthz {
	return &fakeAuthz{
		isClientAdminFn: func(ctx context.Context, userID string, clientID int64) (bool, error) {
			return true, nil
		},
		isAgencyAdminFn: func(ctx context.Context, userID, agencyID string) (bool, error) {
			return true, nil
		},
		canViewFn: func(ctx context.Context, userID string, e authz.EmployeeView) (bool, error) {
			return true, nil
		},
	}
}

func placementRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		UserID:   uuid.New().String(),
		AgencyID: uuid.New().String(),
	}
}

func TestService_Create(t *testing.T) {
	var saved Employee
	repo := &fakeRepo{
		existsFn: func(ctx context.Context, clientID, employeeID int64) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, e *Employee) error {
			saved = *e
			return nil
		},
	}

	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, &fakeTimes{})

	resp, err := svc.Create(context.Background(), uuid.New().String(), 42, placementRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), saved.ClientID)
	assert.GreaterOrEqual(t, saved.EmployeeID, int64(100000))
	assert.LessOrEqual(t, saved.EmployeeID, int64(999999))
	assert.False(t, saved.IsActive)
	assert.Equal(t, saved.EmployeeID, resp.EmployeeID)
}

func TestService_Create_RegeneratesOnDuplicateNumber(t *testing.T) {
	attempts := 0
	numbers := map[int64]bool{}
	repo := &fakeRepo{
		existsFn: func(ctx context.Context, clientID, employeeID int64) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, e *Employee) error {
			attempts++
			numbers[e.EmployeeID] = true
			if attempts == 1 {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_client_employee_id"}
			}
			return nil
		},
	}

	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, &fakeTimes{})

	_, err := svc.Create(context.Background(), uuid.New().String(), 42, placementRequest())

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestService_Create_RequiresAgencyAdmin(t *testing.T) {
	az := allowAll()
	az.isAgencyAdminFn = func(ctx context.Context, userID, agencyID string) (bool, error) {
		return false, nil
	}

	svc := NewService(&fakeRepo{}, az, &fakeContracts{approved: true}, &fakeTimes{})

	_, err := svc.Create(context.Background(), uuid.New().String(), 42, placementRequest())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_Create_RequiresApprovedContract(t *testing.T) {
	svc := NewService(&fakeRepo{}, allowAll(), &fakeContracts{approved: false}, &fakeTimes{})

	_, err := svc.Create(context.Background(), uuid.New().String(), 42, placementRequest())
	assert.ErrorIs(t, err, employeeerrors.ErrContractNotApproved)
}

func TestService_Approve(t *testing.T) {
	e := &Employee{
		ID:         uuid.New(),
		EmployeeID: 123456,
		ClientID:   42,
		AgencyID:   uuid.New(),
		UserID:     uuid.New(),
	}

	var saved Employee
	repo := &fakeRepo{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
			return e, nil
		},
		updateFn: func(ctx context.Context, e *Employee) error {
			saved = *e
			return nil
		},
	}

	admin := uuid.New().String()
	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, &fakeTimes{})

	resp, err := svc.Approve(context.Background(), admin, 42, e.EmployeeID)

	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.True(t, saved.IsActive)
	assert.NotNil(t, saved.TimeApproved)
	assert.Equal(t, admin, saved.ApprovedByID.String())
}

func TestService_Approve_AlreadyApprovedIsNoOp(t *testing.T) {
	approvedAt := time.Now().UTC().Add(-24 * time.Hour)
	approver := uuid.New()
	e := &Employee{
		ID:           uuid.New(),
		EmployeeID:   123456,
		ClientID:     42,
		AgencyID:     uuid.New(),
		UserID:       uuid.New(),
		IsActive:     true,
		ApprovedByID: &approver,
		TimeApproved: &approvedAt,
	}

	updates := 0
	repo := &fakeRepo{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
			return e, nil
		},
		updateFn: func(ctx context.Context, e *Employee) error {
			updates++
			return nil
		},
	}

	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, &fakeTimes{})

	resp, err := svc.Approve(context.Background(), uuid.New().String(), 42, e.EmployeeID)

	assert.NoError(t, err)
	assert.Equal(t, 0, updates)
	assert.Equal(t, approver.String(), e.ApprovedByID.String())
	assert.Equal(t, approvedAt.Format(time.RFC3339), resp.TimeApproved)
}

func TestService_Get(t *testing.T) {
	e := &Employee{
		ID:         uuid.New(),
		EmployeeID: 123456,
		ClientID:   42,
		AgencyID:   uuid.New(),
		UserID:     uuid.New(),
		IsActive:   true,
	}

	repo := &fakeRepo{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
			return e, nil
		},
	}

	times := &fakeTimes{open: true, worked: 2*time.Hour + 8*time.Minute}
	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, times)

	resp, err := svc.Get(context.Background(), e.UserID.String(), 42, e.EmployeeID)

	assert.NoError(t, err)
	assert.True(t, resp.IsClockedIn)
	assert.Equal(t, int64((2*time.Hour + 15*time.Minute).Seconds()), resp.TotalTimeSeconds)
}

func TestService_Get_InvisiblePlacementLooksAbsent(t *testing.T) {
	e := &Employee{
		ID:         uuid.New(),
		EmployeeID: 123456,
		ClientID:   42,
		AgencyID:   uuid.New(),
		UserID:     uuid.New(),
	}

	repo := &fakeRepo{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
			return e, nil
		},
	}

	az := allowAll()
	az.canViewFn = func(ctx context.Context, userID string, v authz.EmployeeView) (bool, error) {
		return false, nil
	}

	svc := NewService(repo, az, &fakeContracts{approved: true}, &fakeTimes{})

	_, err := svc.Get(context.Background(), uuid.New().String(), 42, e.EmployeeID)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_Get_UnknownPlacement(t *testing.T) {
	repo := &fakeRepo{
		findByNumberFn: func(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(repo, allowAll(), &fakeContracts{approved: true}, &fakeTimes{})

	_, err := svc.Get(context.Background(), uuid.New().String(), 42, 999999)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_GetAll_RequiresClientAdmin(t *testing.T) {
	az := allowAll()
	az.isClientAdminFn = func(ctx context.Context, userID string, clientID int64) (bool, error) {
		return false, nil
	}

	svc := NewService(&fakeRepo{}, az, &fakeContracts{approved: true}, &fakeTimes{})

	_, err := svc.GetAll(context.Background(), uuid.New().String(), 42)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
