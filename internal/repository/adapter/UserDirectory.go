package adapter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	cacheport "go-messenger/internal/infrastructure/cache/port"
	repository "go-messenger/internal/repository/port"
)

const displayNameTTL = 10 * time.Minute

// UserDirectory resolves display names through a cache in front of the UserRepository.
type UserDirectory struct {
	users repository.UserRepository
	cache cacheport.Cache
	log   *zap.Logger
}

func NewUserDirectory(users repository.UserRepository, cache cacheport.Cache, log *zap.Logger) *UserDirectory {
	return &UserDirectory{users: users, cache: cache, log: log.With(zap.String("module", "user_directory"))}
}

func displayNameKey(id string) string { return "user:name:" + id }

// DisplayName never fails; unknown users resolve to their id.
func (d *UserDirectory) DisplayName(ctx context.Context, userID string) string {
	if name, err := d.cache.Get(ctx, displayNameKey(userID)); err == nil {
		return name
	} else if !errors.Is(err, cacheport.ErrMiss) {
		d.log.Debug("display name cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	u, err := d.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			d.log.Warn("display name lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return userID
	}
	d.Remember(ctx, *u)
	return u.Name()
}

// Remember caches the user's current display name.
func (d *UserDirectory) Remember(ctx context.Context, u repository.User) {
	if err := d.cache.Set(ctx, displayNameKey(u.ID), u.Name(), displayNameTTL); err != nil {
		d.log.Debug("display name cache write failed", zap.String("user_id", u.ID), zap.Error(err))
	}
}

func (d *UserDirectory) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return d.users.IsBlocked(ctx, blockerID, blockedID)
}
