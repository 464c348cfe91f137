package employee

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeIDDigits is the length of the human-facing employee number.
// The number is unique per client, not globally, so collisions across
// clients are expected and fine.
const EmployeeIDDigits = 6

// Employee is a placement of a user at a client, hired through a
// staffing agency. Placements start inactive; a client admin approves
// them before any hours can be logged.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID   int64      `gorm:"uniqueIndex:uq_employee_client_employee_id;not null"`
	ClientID     int64      `gorm:"uniqueIndex:uq_employee_client_employee_id;not null;index"`
	AgencyID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	IsActive     bool       `gorm:"not null;default:false"`
	ApprovedByID *uuid.UUID `gorm:"type:uuid"`
	TimeApproved *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}
