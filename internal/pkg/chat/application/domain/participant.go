package chat

import "time"

// GroupRole expresses the role of a member within a group.
type GroupRole string

const (
	GroupRoleMember GroupRole = "member"
	GroupRoleAdmin  GroupRole = "admin"
)

// GroupMember captures membership of a user in a group.
// Primary key: (GroupID, UserID)
type GroupMember struct {
	GroupID   string
	UserID    string
	Role      GroupRole
	CreatedAt time.Time
}
