package dto

import (
	"time"

	repository "go-messenger/internal/repository/port"
)

// User is the public wire shape of a profile.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	IsOnline    bool       `json:"isOnline"`
	LastSeenAt  *time.Time `json:"lastSeenAt,omitempty"`
}

// Me adds the fields only the owner may see.
type Me struct {
	User
	Balance int64 `json:"balance"`
}

func FromUser(u repository.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.Name(),
		AvatarURL:   u.AvatarURL,
		IsOnline:    u.IsOnline,
		LastSeenAt:  u.LastSeenAt,
	}
}

func FromUsers(us []repository.User) []User {
	out := make([]User, 0, len(us))
	for _, u := range us {
		out = append(out, FromUser(u))
	}
	return out
}

func FromMe(u repository.User) Me {
	return Me{User: FromUser(u), Balance: u.Balance}
}
