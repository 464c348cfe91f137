package client

import (
	"time"

	"github.com/google/uuid"
)

const (
	// IDDigits is the number of decimal digits in a client's public ID.
	IDDigits = 7

	// SlugMaxLength bounds the slugified base before a random suffix may
	// be appended.
	SlugMaxLength = 50
)

// Client is a company that employees perform work for. Its primary key
// is a randomly generated numeric ID meant to be shared with humans.
type Client struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"not null"`
	Phone     string `gorm:"type:varchar(30)"`
	Notes     string `gorm:"type:text"`
	Slug      string `gorm:"uniqueIndex:uq_client_slug;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Client) TableName() string {
	return "clients"
}

// ClientAdmin links a user to a client, granting admin rights on it.
type ClientAdmin struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  int64     `gorm:"uniqueIndex:uq_client_admin;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_client_admin;not null"`
	CreatedAt time.Time
}

func (ClientAdmin) TableName() string {
	return "client_admins"
}

// ClientAdminInvite is a pending, single-use invitation for a user to
// become an admin of a client. Accepting it creates the ClientAdmin and
// deletes the invite in the same transaction.
type ClientAdminInvite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID  int64     `gorm:"not null;index"`
	Email     string    `gorm:"not null"`
	Token     string    `gorm:"type:varchar(16);uniqueIndex:uq_invite_token;not null"`
	CreatedAt time.Time
}

func (ClientAdminInvite) TableName() string {
	return "client_admin_invites"
}
