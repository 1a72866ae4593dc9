package repository

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user repository: user not found")

// User is the locally known profile of an authenticated identity.
type User struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
	IsOnline    bool
	LastSeenAt  *time.Time
	Balance     int64
	CreatedAt   time.Time
}

// Name is the display name, falling back to the username and then the id.
func (u User) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return u.Username
	default:
		return u.ID
	}
}

// UserRepository defines persistence for users and their social graph.
type UserRepository interface {
	// Upsert creates the user or refreshes non-empty profile fields.
	Upsert(ctx context.Context, u User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Search matches username or display name case-insensitively; an empty query lists users.
	Search(ctx context.Context, query string, limit int) ([]User, error)
	SetPresence(ctx context.Context, id string, online bool, seenAt time.Time) error

	// AddFriendship records a reciprocal friendship.
	AddFriendship(ctx context.Context, a, b string) error
	RemoveFriendship(ctx context.Context, a, b string) error
	ListFriends(ctx context.Context, id string) ([]User, error)

	// Block records blocker -> blocked and drops any friendship between them.
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	ListBlocked(ctx context.Context, blockerID string) ([]User, error)
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}
