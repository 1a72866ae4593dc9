package chat

import (
	"sort"
	"time"
)

// SelfPartner is the dedup key for a direct conversation whose only member is the caller.
const SelfPartner = "self"

// Conversation is a direct (two members) or group thread.
type Conversation struct {
	ID            string
	Title         string
	IsGroup       bool
	Members       []string
	MutedBy       []string
	DirectKey     string
	LastMessageAt time.Time
	CreatedAt     time.Time
}

// DirectKey is the normalized unordered pair used to keep one direct conversation per pair.
func DirectKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// NewDirectConversation builds a direct conversation between a and b. a == b yields a self conversation.
func NewDirectConversation(a, b string, now time.Time) Conversation {
	members := []string{a}
	if b != a {
		members = append(members, b)
	}
	return Conversation{
		Members:       members,
		DirectKey:     DirectKey(a, b),
		LastMessageAt: now,
		CreatedAt:     now,
	}
}

// NewGroupConversation builds a group conversation with unique members.
func NewGroupConversation(title string, members []string, now time.Time) Conversation {
	return Conversation{
		Title:         title,
		IsGroup:       true,
		Members:       UniqueMembers(members),
		LastMessageAt: now,
		CreatedAt:     now,
	}
}

func (c Conversation) HasMember(userID string) bool {
	return contains(c.Members, userID)
}

func (c Conversation) IsMutedBy(userID string) bool {
	return contains(c.MutedBy, userID)
}

// Partner returns the other member of a direct conversation as seen by userID.
func (c Conversation) Partner(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return SelfPartner
}

// DedupeForUser orders conversations by last activity, newest first, and keeps
// only the most recently active direct conversation per partner. Groups are
// always kept. The input slice is not modified.
func DedupeForUser(userID string, convs []Conversation) []Conversation {
	sorted := make([]Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastMessageAt.After(sorted[j].LastMessageAt)
	})

	out := make([]Conversation, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, c := range sorted {
		if c.IsGroup {
			out = append(out, c)
			continue
		}
		partner := c.Partner(userID)
		if _, dup := seen[partner]; dup {
			continue
		}
		seen[partner] = struct{}{}
		out = append(out, c)
	}
	return out
}

// UniqueMembers drops empty and repeated ids, keeping first-seen order.
func UniqueMembers(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
