package agency

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"timetracker/internal/tenant"
)

//go:generate mockgen -source=agency_repo.go -destination=mock/agency_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *StaffingAgency) error
	FindByID(ctx context.Context, id string) (*StaffingAgency, error)
	FindBySlug(ctx context.Context, slug string) (*StaffingAgency, error)
	FindAll(ctx context.Context) ([]StaffingAgency, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	CreateAdmin(ctx context.Context, a *StaffingAgencyAdmin) error

	CreateEmployee(ctx context.Context, e *StaffingAgencyEmployee) error
	UpdateEmployee(ctx context.Context, e *StaffingAgencyEmployee) error
	FindEmployeeByID(ctx context.Context, id string) (*StaffingAgencyEmployee, error)
	FindPendingByAgency(ctx context.Context, agencyID string) ([]StaffingAgencyEmployee, error)
	HasApprovedContract(ctx context.Context, agencyID, userID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, a *StaffingAgency) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*StaffingAgency, error) {
	var a StaffingAgency
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*StaffingAgency, error) {
	var a StaffingAgency
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&a).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context) ([]StaffingAgency, error) {
	var rows []StaffingAgency
	err := r.db.WithContext(ctx).
		Order("name ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StaffingAgency{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateAdmin(ctx context.Context, a *StaffingAgencyAdmin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) CreateEmployee(ctx context.Context, e *StaffingAgencyEmployee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) UpdateEmployee(ctx context.Context, e *StaffingAgencyEmployee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) FindEmployeeByID(ctx context.Context, id string) (*StaffingAgencyEmployee, error) {
	var e StaffingAgencyEmployee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *repository) FindPendingByAgency(ctx context.Context, agencyID string) ([]StaffingAgencyEmployee, error) {
	var rows []StaffingAgencyEmployee
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByAgency(agencyID)).
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) HasApprovedContract(ctx context.Context, agencyID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StaffingAgencyEmployee{}).
		Scopes(tenant.ByAgency(agencyID)).
		Where("user_id = ?", userID).
		Where("is_approved = ?", true).
		Count(&count).Error
	return count > 0, err
}
