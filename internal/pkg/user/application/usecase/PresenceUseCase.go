package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/auth"
	"go-messenger/internal/infrastructure/realtime"
	"go-messenger/internal/pkg/apperr"
	repository "go-messenger/internal/repository/port"
)

// GlobalPublisher delivers an event to every connected session.
type GlobalPublisher interface {
	PublishToAll(ctx context.Context, eventType string, payload any, excludeUserID string) error
}

// NameCache learns display names as users connect.
type NameCache interface {
	Remember(ctx context.Context, u repository.User)
}

// PresenceEvent is the payload of user_connected and user_disconnected.
type PresenceEvent struct {
	UserID string `json:"userId"`
}

// PresenceUseCase tracks online state per user. Every connect and every
// disconnect flips the state; sessions are not counted, so a user with two
// sessions shows offline as soon as either closes.
type PresenceUseCase struct {
	Repo      repository.UserRepository
	Names     NameCache
	Publisher GlobalPublisher
	Now       func() time.Time
	log       *zap.Logger
}

func NewPresenceUseCase(repo repository.UserRepository, names NameCache, pub GlobalPublisher, log *zap.Logger) *PresenceUseCase {
	return &PresenceUseCase{
		Repo:      repo,
		Names:     names,
		Publisher: pub,
		Now:       time.Now,
		log:       log.With(zap.String("usecase", "presence")),
	}
}

// Connect refreshes the profile from the verified claims, marks the user
// online and announces it. The announcement goes out even when storage fails.
func (uc *PresenceUseCase) Connect(ctx context.Context, id auth.Identity) error {
	if id.UserID == "" {
		return apperr.Validation("userId is required")
	}
	u := repository.User{ID: id.UserID, Username: id.Username, DisplayName: id.DisplayName}
	var errs []error
	if err := uc.Repo.Upsert(ctx, u); err != nil {
		errs = append(errs, apperr.Persistence(err))
	} else if uc.Names != nil {
		if stored, err := uc.Repo.FindByID(ctx, id.UserID); err == nil {
			uc.Names.Remember(ctx, *stored)
		}
	}
	if err := uc.Repo.SetPresence(ctx, id.UserID, true, uc.Now()); err != nil {
		errs = append(errs, apperr.Persistence(err))
	}
	uc.announce(ctx, realtime.EventUserConnected, id.UserID)
	return errors.Join(errs...)
}

// Disconnect marks the user offline and announces it.
func (uc *PresenceUseCase) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Validation("userId is required")
	}
	var err error
	if perr := uc.Repo.SetPresence(ctx, userID, false, uc.Now()); perr != nil {
		err = apperr.Persistence(perr)
	}
	uc.announce(ctx, realtime.EventUserDisconnected, userID)
	return err
}

func (uc *PresenceUseCase) announce(ctx context.Context, event, userID string) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishToAll(ctx, event, PresenceEvent{UserID: userID}, ""); err != nil {
		uc.log.Warn("presence broadcast incomplete", zap.String("event", event), zap.String("user_id", userID), zap.Error(err))
	}
}
