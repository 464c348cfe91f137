package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clienterrors "timetracker/internal/client/errors"
	"timetracker/internal/events"
	"timetracker/internal/messaging/kafka"
	"timetracker/internal/shared/apperror"
	"timetracker/internal/shared/contextutil"
	"timetracker/internal/shared/idgen"
)

// createRetries bounds how many times Create regenerates identifiers
// after losing the generate-then-persist race to a concurrent caller.
const createRetries = 3

// Authorizer is the slice of the authorization service this package
// needs. Membership is checked fresh on every call.
type Authorizer interface {
	IsClientAdmin(ctx context.Context, userID string, clientID int64) (bool, error)
}

//go:generate mockgen -source=client_service.go -destination=mock/client_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	GetBySlug(ctx context.Context, slug string) (ClientResponse, error)
	GetAll(ctx context.Context) ([]ClientResponse, error)
	AddAdmin(ctx context.Context, actorID string, clientID int64, userID string) (ClientAdminResponse, error)
	ListAdmins(ctx context.Context, actorID string, clientID int64) ([]ClientAdminResponse, error)
	Invite(ctx context.Context, actorID string, clientID int64, req InviteAdminRequest) (InviteResponse, error)
	AcceptInvite(ctx context.Context, token, userID string) (ClientAdminResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	authz  Authorizer
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, authorizer Authorizer, logger ...*zap.Logger) Service {
	l := zap.L().Named("client.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		authz:  authorizer,
		logger: l,
	}
}

// requireAdmin returns ErrClientNotFound when the actor is not an admin
// of the client, so unauthorized callers cannot tell the client exists.
func (s *service) requireAdmin(ctx context.Context, actorID string, clientID int64) error {
	ok, err := s.authz.IsClientAdmin(ctx, actorID, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return clienterrors.ErrClientNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create client requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	var lastErr error
	for attempt := 0; attempt < createRetries; attempt++ {
		c, err := s.createOnce(ctx, req)
		if err == nil {
			s.logger.Info("create client success",
				zap.String("request_id", rid),
				zap.Int64("client_id", c.ID),
				zap.String("slug", c.Slug),
			)
			return mapToResponse(*c), nil
		}

		// The generated ID or slug was unique at check time but another
		// request persisted the same value first. Regenerate and retry.
		if isDuplicateKey(err) {
			s.logger.Warn("create client lost identifier race, regenerating",
				zap.String("request_id", rid),
				zap.Int("attempt", attempt+1),
			)
			lastErr = err
			continue
		}

		s.logger.Error("create client failed", zap.String("request_id", rid), zap.Error(err))
		return ClientResponse{}, mapRepositoryError(err)
	}

	s.logger.Error("create client exhausted identifier retries",
		zap.String("request_id", rid),
		zap.Error(lastErr),
	)
	return ClientResponse{}, mapRepositoryError(lastErr)
}

func (s *service) createOnce(ctx context.Context, req CreateClientRequest) (*Client, error) {
	id, err := idgen.GenerateUniqueID(ctx, IDDigits,
		func(ctx context.Context, v int64) (bool, error) {
			return s.repo.ExistsByID(ctx, v)
		},
		clientIDOptions(),
	)
	if err != nil {
		return nil, err
	}

	slug, err := idgen.GenerateSlug(ctx, req.Name, SlugMaxLength,
		func(ctx context.Context, v string) (bool, error) {
			return s.repo.ExistsBySlug(ctx, v)
		},
	)
	if err != nil {
		return nil, err
	}

	c := &Client{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
		Slug:  slug,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func clientIDOptions() idgen.Options {
	opts := idgen.DefaultOptions()
	opts.FieldName = "client.id"
	return opts
}

func (s *service) GetBySlug(ctx context.Context, slug string) (ClientResponse, error) {
	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return ClientResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context) ([]ClientResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]ClientResponse, len(rows))
	for i, c := range rows {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) AddAdmin(ctx context.Context, actorID string, clientID int64, userID string) (ClientAdminResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ClientAdminResponse{}, apperror.ErrInvalidInput
	}

	if err := s.requireAdmin(ctx, actorID, clientID); err != nil {
		return ClientAdminResponse{}, err
	}

	if _, err := s.repo.FindByID(ctx, clientID); err != nil {
		return ClientAdminResponse{}, mapRepositoryError(err)
	}

	admin := &ClientAdmin{
		ID:       uuid.New(),
		ClientID: clientID,
		UserID:   uid,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		s.logger.Error("add client admin failed",
			zap.Int64("client_id", clientID),
			zap.Error(err),
		)
		return ClientAdminResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("client admin added",
		zap.Int64("client_id", clientID),
		zap.String("user_id", userID),
	)
	return mapAdminToResponse(*admin), nil
}

func (s *service) ListAdmins(ctx context.Context, actorID string, clientID int64) ([]ClientAdminResponse, error) {
	if err := s.requireAdmin(ctx, actorID, clientID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAdminsByClient(ctx, clientID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]ClientAdminResponse, len(rows))
	for i, a := range rows {
		res[i] = mapAdminToResponse(a)
	}
	return res, nil
}

// Invite records a pending admin invitation and stages the email event
// in the same transaction. Delivery runs through the outbox worker; the
// caller only learns whether the invite was recorded.
func (s *service) Invite(ctx context.Context, actorID string, clientID int64, req InviteAdminRequest) (InviteResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if err := s.requireAdmin(ctx, actorID, clientID); err != nil {
		return InviteResponse{}, err
	}

	c, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return InviteResponse{}, mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("invite begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return InviteResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inv := &ClientAdminInvite{
		ID:       uuid.New(),
		ClientID: c.ID,
		Email:    req.Email,
		Token:    idgen.GenerateToken(),
	}
	if err := qtx.CreateInvite(ctx, inv); err != nil {
		s.logger.Error("invite persist failed", zap.String("request_id", rid), zap.Error(err))
		return InviteResponse{}, mapRepositoryError(err)
	}

	event := events.ClientAdminInviteRequested{
		EventType:  "client_admin_invite_requested",
		RequestID:  rid,
		InviteID:   inv.ID.String(),
		ClientID:   c.ID,
		Email:      inv.Email,
		AcceptURL:  fmt.Sprintf("/clients/%s/admin-invites/%s/accept", c.Slug, inv.Token),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return InviteResponse{}, err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "client_admin_invite",
		AggregateID:   inv.ID.String(),
		EventType:     event.EventType,
		Topic:         events.ClientAdminInviteTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("invite outbox persist failed", zap.String("request_id", rid), zap.Error(err))
		return InviteResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("invite commit failed", zap.String("request_id", rid), zap.Error(err))
		return InviteResponse{}, err
	}

	s.logger.Info("client admin invitation queued",
		zap.String("request_id", rid),
		zap.Int64("client_id", c.ID),
		zap.String("email", inv.Email),
	)
	return mapInviteToResponse(*inv), nil
}

// AcceptInvite consumes an invitation exactly once. The invite row is
// deleted before the admin is created; the delete is the claim, so of
// two concurrent accepts only the one that removed the row proceeds.
// An unknown token and an already-used token are indistinguishable to
// the caller.
func (s *service) AcceptInvite(ctx context.Context, token, userID string) (ClientAdminResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ClientAdminResponse{}, apperror.ErrInvalidInput
	}

	inv, err := s.repo.FindInviteByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClientAdminResponse{}, clienterrors.ErrInviteNotFound
		}
		return ClientAdminResponse{}, err
	}

	claimed, err := s.repo.DeleteInvite(ctx, inv.ID.String())
	if err != nil {
		s.logger.Error("accept invite delete failed", zap.Error(err))
		return ClientAdminResponse{}, err
	}
	if !claimed {
		return ClientAdminResponse{}, clienterrors.ErrInviteNotFound
	}

	admin := &ClientAdmin{
		ID:       uuid.New(),
		ClientID: inv.ClientID,
		UserID:   uid,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		s.logger.Error("accept invite create admin failed", zap.Error(err))
		return ClientAdminResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("client admin created from invite",
		zap.Int64("client_id", inv.ClientID),
		zap.String("user_id", userID),
	)
	return mapAdminToResponse(*admin), nil
}

func mapToResponse(c Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func mapAdminToResponse(a ClientAdmin) ClientAdminResponse {
	return ClientAdminResponse{
		ID:        a.ID.String(),
		ClientID:  a.ClientID,
		UserID:    a.UserID.String(),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func mapInviteToResponse(inv ClientAdminInvite) InviteResponse {
	return InviteResponse{
		ID:        inv.ID.String(),
		ClientID:  inv.ClientID,
		Email:     inv.Email,
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
}
