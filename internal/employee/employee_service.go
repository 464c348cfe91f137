package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"timetracker/internal/authz"
	employeeerrors "timetracker/internal/employee/errors"
	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/idgen"
	"timetracker/internal/shared/timeutil"
)

// createRetries bounds how often a placement is retried when the
// generated employee number loses a uniqueness race at insert time.
const createRetries = 3

// Authorizer is the slice of the authorization service this package
// needs.
type Authorizer interface {
	IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error)
	IsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error)
	CanViewEmployee(ctx context.Context, userID string, e authz.EmployeeView) (bool, error)
}

// ContractChecker answers whether a user holds an approved contract
// with a staffing agency. The agency repository satisfies it.
type ContractChecker interface {
	HasApprovedContract(ctx context.Context, agencyID, userID string) (bool, error)
}

// TimeQuerier exposes the clock state queries this package derives
// employee fields from. The time record repository satisfies it.
type TimeQuerier interface {
	HasOpenRecord(ctx context.Context, employeeID string) (bool, error)
	TotalWorked(ctx context.Context, employeeID string) (time.Duration, error)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, clientID int64, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, actorID string, clientID, employeeID int64) (EmployeeDetailResponse, error)
	GetAll(ctx context.Context, actorID string, clientID int64) ([]EmployeeResponse, error)
	Approve(ctx context.Context, actorID string, clientID, employeeID int64) (EmployeeResponse, error)
}

type service struct {
	repo      Repository
	authz     Authorizer
	contracts ContractChecker
	times     TimeQuerier
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	authorizer Authorizer,
	contracts ContractChecker,
	times TimeQuerier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:      repo,
		authz:     authorizer,
		contracts: contracts,
		times:     times,
		logger:    l,
	}
}

// Create places an agency's contracted worker at a client. The actor
// must administer the hiring agency, and the worker's contract with
// that agency must already be approved.
func (s *service) Create(ctx context.Context, actorID string, clientID int64, req CreateEmployeeRequest) (EmployeeResponse, error) {
	ok, err := s.authz.IsAgencyAdmin(ctx, actorID, req.AgencyID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	approved, err := s.contracts.HasApprovedContract(ctx, req.AgencyID, req.UserID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !approved {
		return EmployeeResponse{}, employeeerrors.ErrContractNotApproved
	}

	var e *Employee
	for attempt := 0; attempt < createRetries; attempt++ {
		e, err = s.createOnce(ctx, clientID, req)
		if err == nil {
			break
		}
		if !isDuplicateEmployeeID(err) {
			return EmployeeResponse{}, mapRepositoryError(err)
		}
		s.logger.Warn("employee number lost uniqueness race, regenerating",
			zap.Int64("client_id", clientID),
			zap.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("employee placed",
		zap.String("id", e.ID.String()),
		zap.Int64("client_id", clientID),
		zap.Int64("employee_id", e.EmployeeID),
	)
	return mapToResponse(*e), nil
}

func (s *service) createOnce(ctx context.Context, clientID int64, req CreateEmployeeRequest) (*Employee, error) {
	opts := idgen.DefaultOptions()
	opts.FieldName = "employee_id"
	number, err := idgen.GenerateUniqueID(ctx, EmployeeIDDigits,
		func(ctx context.Context, candidate int64) (bool, error) {
			return s.repo.ExistsByEmployeeID(ctx, clientID, candidate)
		},
		opts,
	)
	if err != nil {
		return nil, err
	}

	agencyUUID, err := uuid.Parse(req.AgencyID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	e := &Employee{
		ID:         uuid.New(),
		EmployeeID: number,
		ClientID:   clientID,
		AgencyID:   agencyUUID,
		UserID:     userUUID,
	}
	if req.SupervisorID != "" {
		sup, err := uuid.Parse(req.SupervisorID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		e.SupervisorID = &sup
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns one placement with its derived clock state. A caller
// who may not view the placement gets the same answer as for one that
// does not exist.
func (s *service) Get(ctx context.Context, actorID string, clientID, employeeID int64) (EmployeeDetailResponse, error) {
	e, err := s.findVisible(ctx, actorID, clientID, employeeID)
	if err != nil {
		return EmployeeDetailResponse{}, err
	}

	clockedIn, err := s.times.HasOpenRecord(ctx, e.ID.String())
	if err != nil {
		return EmployeeDetailResponse{}, err
	}
	worked, err := s.times.TotalWorked(ctx, e.ID.String())
	if err != nil {
		return EmployeeDetailResponse{}, err
	}

	return EmployeeDetailResponse{
		EmployeeResponse: mapToResponse(*e),
		IsClockedIn:      clockedIn,
		TotalTimeSeconds: int64(timeutil.RoundTimeWorked(worked).Seconds()),
	}, nil
}

func (s *service) GetAll(ctx context.Context, actorID string, clientID int64) ([]EmployeeResponse, error) {
	ok, err := s.authz.IsClientAdmin(ctx, actorID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}

	rows, err := s.repo.FindAllByClient(ctx, clientID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

// Approve activates a placement. Approving an already-approved
// placement is a no-op so a double-submitted form does not error.
func (s *service) Approve(ctx context.Context, actorID string, clientID, employeeID int64) (EmployeeResponse, error) {
	ok, err := s.authz.IsClientAdmin(ctx, actorID, clientID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	e, err := s.repo.FindByEmployeeIDAndClient(ctx, employeeID, clientID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if e.TimeApproved != nil {
		s.logger.Warn("approving previously approved employee",
			zap.String("id", e.ID.String()),
			zap.Int64("employee_id", e.EmployeeID),
		)
		return mapToResponse(*e), nil
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return EmployeeResponse{}, apperror.ErrInvalidInput
	}

	now := time.Now().UTC()
	e.IsActive = true
	e.ApprovedByID = &actorUUID
	e.TimeApproved = &now

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("approve employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("employee approved",
		zap.String("id", e.ID.String()),
		zap.String("approved_by", actorID),
	)
	return mapToResponse(*e), nil
}

// findVisible loads a placement and enforces visibility, answering
// ErrEmployeeNotFound for both unknown and unviewable placements.
func (s *service) findVisible(ctx context.Context, actorID string, clientID, employeeID int64) (*Employee, error) {
	e, err := s.repo.FindByEmployeeIDAndClient(ctx, employeeID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	ok, err := s.authz.CanViewEmployee(ctx, actorID, authz.EmployeeView{
		UserID:   e.UserID.String(),
		ClientID: e.ClientID,
		AgencyID: e.AgencyID.String(),
		IsActive: e.IsActive,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return e, nil
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID,
		ClientID:   e.ClientID,
		AgencyID:   e.AgencyID.String(),
		UserID:     e.UserID.String(),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
	if e.SupervisorID != nil {
		resp.SupervisorID = e.SupervisorID.String()
	}
	if e.TimeApproved != nil {
		resp.TimeApproved = e.TimeApproved.Format(time.RFC3339)
	}
	return resp
}
