package authz

import (
	"context"
)

// EmployeeView carries the fields of an employee placement the
// predicates need. Callers populate it from the entity they already
// loaded so the predicates stay free of entity imports.
type EmployeeView struct {
	UserID   string
	ClientID int64
	AgencyID string
	IsActive bool
}

// Service answers tenancy membership questions. Every call queries the
// store directly: membership can change between requests, so results
// are never cached.
//
//go:generate mockgen -source=authz_service.go -destination=mock/authz_service_mock.go -package=mock
type Service interface {
	IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error)
	IsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error)
	CanViewEmployee(ctx context.Context, userID string, e EmployeeView) (bool, error)
	CanApproveTimeRecord(ctx context.Context, userID string, clientID int64) (bool, error)
	CanClock(userID string, e EmployeeView) bool
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error) {
	return s.repo.ExistsClientAdmin(ctx, userID, clientID)
}

func (s *service) IsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error) {
	return s.repo.ExistsAgencyAdmin(ctx, userID, agencyID)
}

// CanViewEmployee allows the employee's own user, any admin of the
// client they are placed at, and any admin of the agency that hired
// them.
func (s *service) CanViewEmployee(ctx context.Context, userID string, e EmployeeView) (bool, error) {
	if userID == e.UserID {
		return true, nil
	}

	ok, err := s.repo.ExistsClientAdmin(ctx, userID, e.ClientID)
	if err != nil || ok {
		return ok, err
	}

	return s.repo.ExistsAgencyAdmin(ctx, userID, e.AgencyID)
}

// CanApproveTimeRecord allows admins of the client the record's
// employee is placed at.
func (s *service) CanApproveTimeRecord(ctx context.Context, userID string, clientID int64) (bool, error) {
	return s.repo.ExistsClientAdmin(ctx, userID, clientID)
}

// CanClock allows only the employee's own user, and only while the
// placement is active.
func (s *service) CanClock(userID string, e EmployeeView) bool {
	return userID == e.UserID && e.IsActive
}
