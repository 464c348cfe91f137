package authz

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=authz_repo.go -destination=mock/authz_repo_mock.go -package=mock
type Repository interface {
	ExistsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error)
	ExistsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ExistsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("client_admins").
		Where("user_id = ? AND client_id = ?", userID, clientID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsAgencyAdmin(ctx context.Context, userID, agencyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("agency_admins").
		Where("user_id = ? AND agency_id = ?", userID, agencyID).
		Count(&count).Error
	return count > 0, err
}
