package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"timetracker/internal/tenant"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmployeeIDAndClient(ctx context.Context, employeeID, clientID int64) (*Employee, error)
	FindAllByClient(ctx context.Context, clientID int64) ([]Employee, error)
	ExistsByEmployeeID(ctx context.Context, clientID, employeeID int64) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *repository) FindByEmployeeIDAndClient(ctx context.Context, employeeID, clientID int64) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByClient(clientID)).
		Where("employee_id = ?", employeeID).
		First(&e).Error
	return &e, err
}

func (r *repository) FindAllByClient(ctx context.Context, clientID int64) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.ByClient(clientID)).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ExistsByEmployeeID checks the number within one client only. The
// same employee number at another client does not count as taken.
func (r *repository) ExistsByEmployeeID(ctx context.Context, clientID, employeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.ByClient(clientID)).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
