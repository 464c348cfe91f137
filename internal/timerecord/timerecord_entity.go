package timerecord

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeRecord is one work period. An open record has no end time and
// means the employee is on the clock. The partial unique index lets
// the database reject a second open record for the same employee even
// when two clock-ins race past the service-level check.
type TimeRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_time_record_open,where:time_end IS NULL"`
	JobID      *uuid.UUID      `gorm:"type:uuid"`
	PayRate    decimal.Decimal `gorm:"type:numeric(11,2);not null"`
	TimeStart  time.Time       `gorm:"not null;index"`
	TimeEnd    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Approval *TimeRecordApproval `gorm:"foreignKey:TimeRecordID"`
}

func (TimeRecord) TableName() string {
	return "time_records"
}

// TimeRecordApproval marks a completed record as accepted by a client
// admin. At most one approval exists per record.
type TimeRecordApproval struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TimeRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_time_record_approval"`
	UserID       uuid.UUID `gorm:"type:uuid;not null"`
	TimeApproved time.Time `gorm:"not null"`
}

func (TimeRecordApproval) TableName() string {
	return "time_record_approvals"
}

// TotalTime is the worked duration of a completed record. Open
// records contribute nothing.
func (t TimeRecord) TotalTime() time.Duration {
	if t.TimeEnd == nil {
		return 0
	}
	return t.TimeEnd.Sub(t.TimeStart)
}

// ProjectedEarnings multiplies the unrounded worked hours by the pay
// rate captured at clock-in.
func (t TimeRecord) ProjectedEarnings() decimal.Decimal {
	seconds := decimal.NewFromInt(int64(t.TotalTime().Seconds()))
	hours := seconds.Div(decimal.NewFromInt(3600))
	return hours.Mul(t.PayRate).Round(2)
}

func (t TimeRecord) IsApproved() bool {
	return t.Approval != nil
}
