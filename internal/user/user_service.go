package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timetracker/internal/shared/apperror"
)

// AdminConfig is the explicit input to the one-shot admin provisioning
// path. The createadmin command builds it from operator-supplied
// credentials; nothing in this package reads the environment.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

var ErrInvalidAdminConfig = apperror.New(
	apperror.CodeInvalidInput,
	"Admin email and password are required",
	http.StatusBadRequest,
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	ProvisionAdmin(ctx context.Context, cfg AdminConfig) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

// ProvisionAdmin creates the admin user, or resets its password and
// admin flag when a user with that email already exists. It is safe to
// run repeatedly at deploy time.
func (s *service) ProvisionAdmin(ctx context.Context, cfg AdminConfig) (*User, error) {
	email := strings.TrimSpace(strings.ToLower(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil, ErrInvalidAdminConfig
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError,
			"Failed to hash password", http.StatusInternalServerError)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("provision admin lookup failed", zap.Error(err))
		return nil, err
	}

	if err == nil {
		existing.PasswordHash = string(hash)
		existing.IsAdmin = true
		existing.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, existing); err != nil {
			s.logger.Error("provision admin update failed", zap.Error(err))
			return nil, err
		}
		s.logger.Info("updated existing admin user", zap.String("email", email))
		return existing, nil
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("provision admin create failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("created admin user", zap.String("email", email))
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
