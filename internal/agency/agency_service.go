package agency

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	agencyerrors "timetracker/internal/agency/errors"
	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/idgen"
)

// Authorizer is the slice of the authorization service this package
// needs.
type Authorizer interface {
	IsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error)
}

//go:generate mockgen -source=agency_service.go -destination=mock/agency_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateAgencyRequest) (AgencyResponse, error)
	GetBySlug(ctx context.Context, slug string) (AgencyResponse, error)
	GetAll(ctx context.Context) ([]AgencyResponse, error)
	Join(ctx context.Context, userID, agencyID string) (AgencyEmployeeResponse, error)
	ApproveEmployee(ctx context.Context, actorID, contractID string) (AgencyEmployeeResponse, error)
	ListPending(ctx context.Context, actorID, agencySlug string) ([]AgencyEmployeeResponse, error)
}

type service struct {
	repo   Repository
	authz  Authorizer
	logger *zap.Logger
}

func NewService(repo Repository, authorizer Authorizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("agency.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("agency.service")
	}
	return &service{repo: repo, authz: authorizer, logger: l}
}

// Create registers a new agency and makes the creating user its first
// admin.
func (s *service) Create(ctx context.Context, actorID string, req CreateAgencyRequest) (AgencyResponse, error) {
	uid, err := uuid.Parse(actorID)
	if err != nil {
		return AgencyResponse{}, apperror.ErrInvalidInput
	}

	slug, err := idgen.GenerateSlug(ctx, req.Name, SlugMaxLength,
		func(ctx context.Context, v string) (bool, error) {
			return s.repo.ExistsBySlug(ctx, v)
		},
	)
	if err != nil {
		return AgencyResponse{}, err
	}

	a := &StaffingAgency{
		ID:    uuid.New(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
		Slug:  slug,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create agency persist failed", zap.Error(err))
		return AgencyResponse{}, mapRepositoryError(err)
	}

	admin := &StaffingAgencyAdmin{
		ID:       uuid.New(),
		AgencyID: a.ID,
		UserID:   uid,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		s.logger.Error("create agency admin failed", zap.Error(err))
		return AgencyResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create agency success",
		zap.String("agency_id", a.ID.String()),
		zap.String("slug", a.Slug),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (AgencyResponse, error) {
	a, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return AgencyResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context) ([]AgencyResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]AgencyResponse, len(rows))
	for i, a := range rows {
		res[i] = mapToResponse(a)
	}
	return res, nil
}

// Join records a user's request to be contracted by an agency. The
// contract starts unapproved.
func (s *service) Join(ctx context.Context, userID, agencyID string) (AgencyEmployeeResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return AgencyEmployeeResponse{}, apperror.ErrInvalidInput
	}
	aid, err := uuid.Parse(agencyID)
	if err != nil {
		return AgencyEmployeeResponse{}, apperror.ErrInvalidInput
	}

	if _, err := s.repo.FindByID(ctx, agencyID); err != nil {
		return AgencyEmployeeResponse{}, mapRepositoryError(err)
	}

	e := &StaffingAgencyEmployee{
		ID:       uuid.New(),
		AgencyID: aid,
		UserID:   uid,
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		s.logger.Error("join agency persist failed", zap.Error(err))
		return AgencyEmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("agency join requested",
		zap.String("agency_id", agencyID),
		zap.String("user_id", userID),
	)
	return mapEmployeeToResponse(*e), nil
}

// ApproveEmployee accepts a contract. Approving an already-approved
// contract is a no-op so a double-submitted form does not error.
func (s *service) ApproveEmployee(ctx context.Context, actorID, contractID string) (AgencyEmployeeResponse, error) {
	e, err := s.repo.FindEmployeeByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AgencyEmployeeResponse{}, agencyerrors.ErrContractNotFound
		}
		return AgencyEmployeeResponse{}, err
	}

	if err := s.requireAdmin(ctx, actorID, e.AgencyID.String()); err != nil {
		return AgencyEmployeeResponse{}, err
	}

	if e.IsApproved {
		s.logger.Warn("approving previously approved agency employee",
			zap.String("contract_id", contractID),
		)
		return mapEmployeeToResponse(*e), nil
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AgencyEmployeeResponse{}, apperror.ErrInvalidInput
	}

	now := time.Now().UTC()
	e.IsApproved = true
	e.ApprovedByID = &actorUUID
	e.TimeApproved = &now

	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		s.logger.Error("approve agency employee persist failed", zap.Error(err))
		return AgencyEmployeeResponse{}, err
	}

	s.logger.Info("agency employee approved",
		zap.String("contract_id", contractID),
		zap.String("approved_by", actorID),
	)
	return mapEmployeeToResponse(*e), nil
}

func (s *service) ListPending(ctx context.Context, actorID, agencySlug string) ([]AgencyEmployeeResponse, error) {
	a, err := s.repo.FindBySlug(ctx, agencySlug)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := s.requireAdmin(ctx, actorID, a.ID.String()); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindPendingByAgency(ctx, a.ID.String())
	if err != nil {
		return nil, err
	}

	res := make([]AgencyEmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapEmployeeToResponse(e)
	}
	return res, nil
}

// requireAdmin answers with ErrAgencyNotFound for non-admins so the
// agency's existence is not leaked.
func (s *service) requireAdmin(ctx context.Context, actorID, agencyID string) error {
	ok, err := s.authz.IsAgencyAdmin(ctx, actorID, agencyID)
	if err != nil {
		return err
	}
	if !ok {
		return agencyerrors.ErrAgencyNotFound
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return agencyerrors.ErrAgencyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_agency_slug":
				return agencyerrors.ErrAgencySlugTaken
			case "uq_agency_employee":
				return agencyerrors.ErrAlreadyContracted
			}
		}
	}

	return err
}

func mapToResponse(a StaffingAgency) AgencyResponse {
	return AgencyResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Notes:     a.Notes,
		Slug:      a.Slug,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func mapEmployeeToResponse(e StaffingAgencyEmployee) AgencyEmployeeResponse {
	resp := AgencyEmployeeResponse{
		ID:         e.ID.String(),
		AgencyID:   e.AgencyID.String(),
		UserID:     e.UserID.String(),
		IsApproved: e.IsApproved,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
	if e.TimeApproved != nil {
		resp.TimeApproved = e.TimeApproved.Format(time.RFC3339)
	}
	return resp
}
