package client

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=client_repo.go -destination=mock/client_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id int64) (*Client, error)
	FindBySlug(ctx context.Context, slug string) (*Client, error)
	FindAll(ctx context.Context) ([]Client, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	CreateAdmin(ctx context.Context, a *ClientAdmin) error
	FindAdminsByClient(ctx context.Context, clientID int64) ([]ClientAdmin, error)
	FindAdminByID(ctx context.Context, id string) (*ClientAdmin, error)

	CreateInvite(ctx context.Context, inv *ClientAdminInvite) error
	FindInviteByToken(ctx context.Context, token string) (*ClientAdminInvite, error)
	DeleteInvite(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, c *Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*Client, error) {
	var c Client
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	return &c, err
}

func (r *repository) FindAll(ctx context.Context) ([]Client, error) {
	var rows []Client
	err := r.db.WithContext(ctx).
		Order("name ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Client{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Client{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateAdmin(ctx context.Context, a *ClientAdmin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAdminsByClient(ctx context.Context, clientID int64) ([]ClientAdmin, error) {
	var rows []ClientAdmin
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAdminByID(ctx context.Context, id string) (*ClientAdmin, error) {
	var a ClientAdmin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *repository) CreateInvite(ctx context.Context, inv *ClientAdminInvite) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindInviteByToken(ctx context.Context, token string) (*ClientAdminInvite, error) {
	var inv ClientAdminInvite
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error
	return &inv, err
}

// DeleteInvite removes the invite and reports whether a row was
// deleted. Concurrent accepts race on this delete; only the one that
// removed the row holds the invite.
func (r *repository) DeleteInvite(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&ClientAdminInvite{})
	return res.RowsAffected > 0, res.Error
}
