package clientjob

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"timetracker/internal/tenant"
)

//go:generate mockgen -source=clientjob_repo.go -destination=mock/clientjob_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, j *ClientJob) error
	Update(ctx context.Context, j *ClientJob) error
	FindByIDAndClient(ctx context.Context, id string, clientID int64) (*ClientJob, error)
	FindBySlugAndClient(ctx context.Context, slug string, clientID int64) (*ClientJob, error)
	FindAllByClient(ctx context.Context, clientID int64) ([]ClientJob, error)
	ExistsBySlugExcluding(ctx context.Context, clientID int64, slug, excludeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, j *ClientJob) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *repository) Update(ctx context.Context, j *ClientJob) error {
	return r.db.WithContext(ctx).Save(j).Error
}

func (r *repository) FindByIDAndClient(ctx context.Context, id string, clientID int64) (*ClientJob, error) {
	var j ClientJob
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByClient(clientID)).
		Where("id = ?", id).
		First(&j).Error
	return &j, err
}

func (r *repository) FindBySlugAndClient(ctx context.Context, slug string, clientID int64) (*ClientJob, error) {
	var j ClientJob
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByClient(clientID)).
		Where("slug = ?", slug).
		First(&j).Error
	return &j, err
}

func (r *repository) FindAllByClient(ctx context.Context, clientID int64) ([]ClientJob, error) {
	var rows []ClientJob
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByClient(clientID)).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsBySlugExcluding(ctx context.Context, clientID int64, slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&ClientJob{}).
		Scopes(tenant.ByClient(clientID)).
		Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
