package clientjob

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlugMaxLength bounds job slugs; they only need to be unique within
// one client.
const SlugMaxLength = 100

// ClientJob is a type of task that can be worked on for one client.
// The slug is unique per client so that two jobs of the same client
// cannot have names that collapse to the same slug.
type ClientJob struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID    int64           `gorm:"uniqueIndex:uq_client_job_slug;not null;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	PayRate     decimal.Decimal `gorm:"type:numeric(11,2);not null"`
	Description string          `gorm:"type:text"`
	Slug        string          `gorm:"type:varchar(100);uniqueIndex:uq_client_job_slug;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ClientJob) TableName() string {
	return "client_jobs"
}
