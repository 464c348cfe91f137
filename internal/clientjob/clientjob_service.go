package clientjob

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	clientjoberrors "timetracker/internal/clientjob/errors"
)

const jobOptionsKeyPrefix = "clientjobs:options:"

func jobOptionsKey(clientID int64) string {
	return jobOptionsKeyPrefix + strconv.FormatInt(clientID, 10)
}

// Authorizer is the slice of the authorization service this package
// needs.
type Authorizer interface {
	IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error)
}

//go:generate mockgen -source=clientjob_service.go -destination=mock/clientjob_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, clientID int64, req CreateJobRequest) (JobResponse, error)
	Update(ctx context.Context, actorID string, clientID int64, jobID string, req UpdateJobRequest) (JobResponse, error)
	GetBySlug(ctx context.Context, clientID int64, slug string) (JobResponse, error)
	GetAll(ctx context.Context, clientID int64) ([]JobResponse, error)
	GetOptions(ctx context.Context, clientID int64) ([]JobOption, error)
}

type service struct {
	repo   Repository
	authz  Authorizer
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, authorizer Authorizer, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("clientjob.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("clientjob.service")
	}
	return &service{
		repo:   repo,
		authz:  authorizer,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, clientID int64, req CreateJobRequest) (JobResponse, error) {
	if err := s.requireAdmin(ctx, actorID, clientID); err != nil {
		return JobResponse{}, err
	}

	rate, err := parsePayRate(req.PayRate)
	if err != nil {
		return JobResponse{}, err
	}

	jobSlug := slug.Make(req.Name)
	if len(jobSlug) > SlugMaxLength {
		jobSlug = jobSlug[:SlugMaxLength]
	}

	if err := s.rejectSimilarName(ctx, clientID, req.Name, jobSlug, ""); err != nil {
		return JobResponse{}, err
	}

	j := &ClientJob{
		ID:          uuid.New(),
		ClientID:    clientID,
		Name:        req.Name,
		PayRate:     rate,
		Description: req.Description,
		Slug:        jobSlug,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		s.logger.Error("create job persist failed",
			zap.Int64("client_id", clientID),
			zap.Error(err),
		)
		return JobResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, clientID)
	s.logger.Info("create job success",
		zap.Int64("client_id", clientID),
		zap.String("job_id", j.ID.String()),
		zap.String("slug", j.Slug),
	)
	return mapToResponse(*j), nil
}

func (s *service) Update(ctx context.Context, actorID string, clientID int64, jobID string, req UpdateJobRequest) (JobResponse, error) {
	if err := s.requireAdmin(ctx, actorID, clientID); err != nil {
		return JobResponse{}, err
	}

	rate, err := parsePayRate(req.PayRate)
	if err != nil {
		return JobResponse{}, err
	}

	j, err := s.repo.FindByIDAndClient(ctx, jobID, clientID)
	if err != nil {
		return JobResponse{}, mapRepositoryError(err)
	}

	jobSlug := slug.Make(req.Name)
	if len(jobSlug) > SlugMaxLength {
		jobSlug = jobSlug[:SlugMaxLength]
	}

	if err := s.rejectSimilarName(ctx, clientID, req.Name, jobSlug, jobID); err != nil {
		return JobResponse{}, err
	}

	j.Name = req.Name
	j.PayRate = rate
	j.Description = req.Description
	j.Slug = jobSlug

	if err := s.repo.Update(ctx, j); err != nil {
		s.logger.Error("update job persist failed", zap.String("job_id", jobID), zap.Error(err))
		return JobResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, clientID)
	s.logger.Info("update job success", zap.String("job_id", jobID))
	return mapToResponse(*j), nil
}

func (s *service) GetBySlug(ctx context.Context, clientID int64, jobSlug string) (JobResponse, error) {
	j, err := s.repo.FindBySlugAndClient(ctx, jobSlug, clientID)
	if err != nil {
		return JobResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*j), nil
}

func (s *service) GetAll(ctx context.Context, clientID int64) ([]JobResponse, error) {
	rows, err := s.repo.FindAllByClient(ctx, clientID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]JobResponse, len(rows))
	for i, j := range rows {
		res[i] = mapToResponse(j)
	}
	return res, nil
}

// GetOptions serves the clock-in job picker. The list is hot while a
// client's employees start shifts, so it is cached in redis behind a
// singleflight to keep a cache miss from stampeding the database.
func (s *service) GetOptions(ctx context.Context, clientID int64) ([]JobOption, error) {
	cacheKey := jobOptionsKey(clientID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var opts []JobOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllByClient(ctx, clientID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		opts := make([]JobOption, len(rows))
		for i, j := range rows {
			opts[i] = JobOption{
				ID:   j.ID.String(),
				Name: j.Name,
				Slug: j.Slug,
			}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, cacheKey, data, time.Hour)
			}
		}

		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]JobOption), nil
}

func (s *service) requireAdmin(ctx context.Context, actorID string, clientID int64) error {
	ok, err := s.authz.IsClientAdmin(ctx, actorID, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return clientjoberrors.ErrJobNotFound
	}
	return nil
}

// rejectSimilarName enforces that no two jobs of one client slugify to
// the same value, naming the colliding job in the error.
func (s *service) rejectSimilarName(ctx context.Context, clientID int64, name, jobSlug, excludeID string) error {
	taken, err := s.repo.ExistsBySlugExcluding(ctx, clientID, jobSlug, excludeID)
	if err != nil {
		return err
	}
	if !taken {
		return nil
	}

	existing, err := s.repo.FindBySlugAndClient(ctx, jobSlug, clientID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	existingName := ""
	if err == nil {
		existingName = existing.Name
	}

	s.logger.Info("job failed unique name validation",
		zap.Int64("client_id", clientID),
		zap.String("name", name),
		zap.String("existing_name", existingName),
	)
	return clientjoberrors.NameTooSimilar(name, existingName)
}

func (s *service) invalidateOptions(ctx context.Context, clientID int64) {
	if s.rdb == nil {
		return
	}

	cacheKey := jobOptionsKey(clientID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate job options cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func parsePayRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, clientjoberrors.ErrInvalidPayRate
	}
	if rate.IsNegative() || rate.Exponent() < -2 {
		return decimal.Zero, clientjoberrors.ErrInvalidPayRate
	}
	return rate, nil
}

func mapToResponse(j ClientJob) JobResponse {
	return JobResponse{
		ID:          j.ID.String(),
		ClientID:    j.ClientID,
		Name:        j.Name,
		PayRate:     j.PayRate.StringFixed(2),
		Description: j.Description,
		Slug:        j.Slug,
	}
}
