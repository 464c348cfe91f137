package agency

import (
	"time"

	"github.com/google/uuid"
)

// SlugMaxLength bounds the slugified base of an agency slug.
const SlugMaxLength = 50

// StaffingAgency is a company that provides employees to clients.
type StaffingAgency struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"type:varchar(30)"`
	Notes     string    `gorm:"type:text"`
	Slug      string    `gorm:"uniqueIndex:uq_agency_slug;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StaffingAgency) TableName() string {
	return "staffing_agencies"
}

// StaffingAgencyAdmin links a user to an agency, granting admin rights
// on it.
type StaffingAgencyAdmin struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgencyID  uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_agency_admin;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_agency_admin;not null"`
	CreatedAt time.Time
}

func (StaffingAgencyAdmin) TableName() string {
	return "agency_admins"
}

// StaffingAgencyEmployee is a user's contract with an agency. It starts
// unapproved; an agency admin accepts the contract before the user can
// be placed at clients.
type StaffingAgencyEmployee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AgencyID     uuid.UUID  `gorm:"type:uuid;uniqueIndex:uq_agency_employee;not null"`
	UserID       uuid.UUID  `gorm:"type:uuid;uniqueIndex:uq_agency_employee;not null"`
	IsApproved   bool       `gorm:"not null;default:false"`
	ApprovedByID *uuid.UUID `gorm:"type:uuid"`
	TimeApproved *time.Time
	CreatedAt    time.Time
}

func (StaffingAgencyEmployee) TableName() string {
	return "agency_employees"
}
