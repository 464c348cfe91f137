package timerecord

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"timetracker/internal/shared/timeutil"
)

//go:generate mockgen -source=timerecord_repo.go -destination=mock/timerecord_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *TimeRecord) error
	Update(ctx context.Context, t *TimeRecord) error
	FindByID(ctx context.Context, id string) (*TimeRecord, error)
	FindOpenByEmployee(ctx context.Context, employeeID string) (*TimeRecord, error)
	FindCompletedByEmployee(ctx context.Context, employeeID string, dr timeutil.DateRange) ([]TimeRecord, error)
	FindUnapprovedByClient(ctx context.Context, clientID int64, dr timeutil.DateRange) ([]TimeRecord, error)
	CreateApproval(ctx context.Context, a *TimeRecordApproval) error
	HasOpenRecord(ctx context.Context, employeeID string) (bool, error)
	TotalWorked(ctx context.Context, employeeID string) (time.Duration, error)
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

func (r *repository) Create(ctx context.Context, t *TimeRecord) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Update(ctx context.Context, t *TimeRecord) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TimeRecord, error) {
	var t TimeRecord
	err := r.db.WithContext(ctx).
		Preload("Approval").
		Where("id = ?", id).
		First(&t).Error
	return &t, err
}

func (r *repository) FindOpenByEmployee(ctx context.Context, employeeID string) (*TimeRecord, error) {
	var t TimeRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("time_end IS NULL").
		First(&t).Error
	return &t, err
}

func (r *repository) FindCompletedByEmployee(ctx context.Context, employeeID string, dr timeutil.DateRange) ([]TimeRecord, error) {
	var rows []TimeRecord
	q := r.db.WithContext(ctx).
		Preload("Approval").
		Where("employee_id = ?", employeeID).
		Where("time_end IS NOT NULL")
	q = applyDateRange(q, "time_start", dr)
	err := q.Order("time_start DESC").Find(&rows).Error
	return rows, err
}

// FindUnapprovedByClient lists completed records without an approval
// across all of a client's employees, most recent start first.
func (r *repository) FindUnapprovedByClient(ctx context.Context, clientID int64, dr timeutil.DateRange) ([]TimeRecord, error) {
	var rows []TimeRecord
	q := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = time_records.employee_id").
		Joins("LEFT JOIN time_record_approvals ON time_record_approvals.time_record_id = time_records.id").
		Where("employees.client_id = ?", clientID).
		Where("time_records.time_end IS NOT NULL").
		Where("time_record_approvals.id IS NULL")
	q = applyDateRange(q, "time_records.time_start", dr)
	err := q.Order("time_records.time_start DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) CreateApproval(ctx context.Context, a *TimeRecordApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) HasOpenRecord(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TimeRecord{}).
		Where("employee_id = ?", employeeID).
		Where("time_end IS NULL").
		Count(&count).Error
	return count > 0, err
}

// TotalWorked sums the exact durations of an employee's completed
// records. Open records are excluded rather than counted as zero.
func (r *repository) TotalWorked(ctx context.Context, employeeID string) (time.Duration, error) {
	var seconds float64
	err := r.db.WithContext(ctx).
		Model(&TimeRecord{}).
		Select("COALESCE(SUM(EXTRACT(EPOCH FROM (time_end - time_start))), 0)").
		Where("employee_id = ?", employeeID).
		Where("time_end IS NOT NULL").
		Scan(&seconds).Error
	return time.Duration(seconds * float64(time.Second)), err
}

// applyDateRange narrows a query to records whose start column falls
// inside the range. The column is always a compile-time constant, not
// caller input.
func applyDateRange(q *gorm.DB, column string, dr timeutil.DateRange) *gorm.DB {
	if dr.Start != nil {
		q = q.Where(column+" >= ?", *dr.Start)
	}
	if dr.End != nil {
		q = q.Where(column+" <= ?", *dr.End)
	}
	return q
}
