package chat

import (
	"errors"
	"strings"
	"time"
)

var ErrGroupNameRequired = errors.New("chat: group name is required")

// Group adds ownership and roles on top of exactly one group conversation.
type Group struct {
	ID             string
	Name           string
	AvatarURL      string
	CreatedBy      string
	ConversationID string
	MembersCount   int
	CreatedAt      time.Time
}

// NewGroup validates the name and returns the group with its creator as admin
// followed by the remaining members.
func NewGroup(name, avatarURL, creatorID string, memberIDs []string, now time.Time) (Group, []GroupMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, nil, ErrGroupNameRequired
	}
	ids := UniqueMembers(append([]string{creatorID}, memberIDs...))
	members := make([]GroupMember, 0, len(ids))
	for _, id := range ids {
		role := GroupRoleMember
		if id == creatorID {
			role = GroupRoleAdmin
		}
		members = append(members, GroupMember{UserID: id, Role: role, CreatedAt: now})
	}
	g := Group{
		Name:         name,
		AvatarURL:    strings.TrimSpace(avatarURL),
		CreatedBy:    creatorID,
		MembersCount: len(members),
		CreatedAt:    now,
	}
	return g, members, nil
}

func (g Group) IsOwner(userID string) bool { return g.CreatedBy == userID }
