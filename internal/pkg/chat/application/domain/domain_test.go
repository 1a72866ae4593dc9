package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func direct(id, a, b string, last time.Time) Conversation {
	c := NewDirectConversation(a, b, last)
	c.ID = id
	return c
}

func TestDirectKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, DirectKey("a", "b"), DirectKey("b", "a"))
	assert.Equal(t, "a:a", DirectKey("a", "a"))
}

func TestDedupeForUserKeepsMostRecentPerPartner(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := direct("c-old", "alice", "bob", base)
	newer := direct("c-new", "bob", "alice", base.Add(time.Hour))
	carol := direct("c-carol", "alice", "carol", base.Add(30*time.Minute))
	self := direct("c-self", "alice", "alice", base.Add(10*time.Minute))
	self2 := direct("c-self2", "alice", "alice", base.Add(5*time.Minute))
	group := NewGroupConversation("team", []string{"alice", "bob"}, base.Add(-time.Hour))
	group.ID = "g1"
	group2 := NewGroupConversation("team", []string{"alice", "bob"}, base.Add(-2*time.Hour))
	group2.ID = "g2"

	in := []Conversation{older, group, carol, newer, self2, self, group2}
	got := DedupeForUser("alice", in)

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c-new", "c-carol", "c-self", "g1", "g2"}, ids)
	assert.Equal(t, "c-old", in[0].ID, "input must not be reordered")
}

func TestPartner(t *testing.T) {
	assert.Equal(t, "bob", direct("c", "alice", "bob", time.Time{}).Partner("alice"))
	assert.Equal(t, SelfPartner, direct("c", "alice", "alice", time.Time{}).Partner("alice"))
}

func TestPostMessageValidates(t *testing.T) {
	conv := direct("c1", "alice", "bob", time.Time{})
	chat := NewChat(conv, time.Time{}, Blocks{})

	_, err := chat.PostMessage(Message{ConversationID: "other", SenderID: "alice", Text: "hi"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidConversation)

	_, err = chat.PostMessage(Message{ConversationID: "c1", SenderID: "mallory", Text: "hi"}, time.Now())
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = chat.PostMessage(Message{ConversationID: "c1", SenderID: "alice", Text: "   "}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = chat.PostMessage(Message{ConversationID: "c1", SenderID: "alice", Type: "sticker", Text: "x"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidMessageType)

	blocked := NewChat(conv, time.Time{}, Blocks{PartnerBlockedSender: true})
	_, err = blocked.PostMessage(Message{ConversationID: "c1", SenderID: "alice", Text: "hi"}, time.Now())
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestPostMessageTimestampsStrictlyIncrease(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	conv := direct("c1", "alice", "bob", now.Add(time.Second))
	chat := NewChat(conv, time.Time{}, Blocks{})

	first, err := chat.PostMessage(Message{ConversationID: "c1", SenderID: "alice", Text: "a"}, now)
	require.NoError(t, err)
	second, err := chat.PostMessage(Message{ConversationID: "c1", SenderID: "bob", Text: "b"}, now)
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Second).Truncate(time.Microsecond).Add(time.Microsecond), first.CreatedAt)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
	assert.Equal(t, time.Duration(0), second.CreatedAt.Sub(second.CreatedAt.Truncate(time.Microsecond)))
	assert.Equal(t, MessageTypeText, first.Type)
}

func TestNewMessageDropsBlankAttachments(t *testing.T) {
	m, err := NewMessage(Message{
		ConversationID: "c1",
		SenderID:       "alice",
		Type:           MessageTypeImage,
		Attachments:    []Attachment{{URL: " "}, {URL: "https://cdn/x.png", Name: "x.png", Size: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, []Attachment{{URL: "https://cdn/x.png", Name: "x.png", Size: 10}}, m.Attachments)
}

func TestNewGroupAssignsRoles(t *testing.T) {
	g, members, err := NewGroup(" Team ", "", "alice", []string{"bob", "alice", ""}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Team", g.Name)
	assert.Equal(t, 2, g.MembersCount)
	require.Len(t, members, 2)
	assert.Equal(t, GroupRoleAdmin, members[0].Role)
	assert.Equal(t, GroupRoleMember, members[1].Role)
	assert.True(t, g.IsOwner("alice"))

	_, _, err = NewGroup("  ", "", "alice", nil, time.Now())
	assert.ErrorIs(t, err, ErrGroupNameRequired)
}

func TestParseMessageType(t *testing.T) {
	typ, err := ParseMessageType("")
	require.NoError(t, err)
	assert.Equal(t, MessageTypeText, typ)
	typ, err = ParseMessageType("Audio")
	require.NoError(t, err)
	assert.Equal(t, MessageTypeAudio, typ)
}
