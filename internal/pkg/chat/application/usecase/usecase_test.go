package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-messenger/internal/infrastructure/realtime"
	chat "go-messenger/internal/pkg/chat/application/domain"
	"go-messenger/internal/pkg/chat/application/dto"
	"go-messenger/internal/pkg/chat/persistence/repository/adapter"
	notification "go-messenger/internal/pkg/notification/application/domain"
	notificationUC "go-messenger/internal/pkg/notification/application/usecase"
)

type published struct {
	ConversationID string
	Event          string
	Payload        any
	Exclude        string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishToConversation(_ context.Context, conversationID, eventType string, payload any, exclude string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{conversationID, eventType, payload, exclude})
	return p.err
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []NotifyMembersInput
	err   error
}

func (n *recordingNotifier) NotifyMembers(_ context.Context, in NotifyMembersInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, in)
	return n.err
}

type fakeUsers struct {
	names  map[string]string
	blocks map[string]bool
}

func (u fakeUsers) DisplayName(_ context.Context, id string) string {
	if n, ok := u.names[id]; ok {
		return n
	}
	return id
}

func (u fakeUsers) IsBlocked(_ context.Context, blocker, blocked string) (bool, error) {
	return u.blocks[blocker+">"+blocked], nil
}

type failingSaveRepo struct {
	*adapter.MemoryChatRepository
	saveErr  error
	touchErr error
}

func (r *failingSaveRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r.saveErr != nil {
		return chat.Message{}, r.saveErr
	}
	return r.MemoryChatRepository.SaveMessage(ctx, m)
}

func (r *failingSaveRepo) TouchLastMessageAt(ctx context.Context, id string, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	return r.MemoryChatRepository.TouchLastMessageAt(ctx, id, at)
}

type fixture struct {
	repo     *adapter.MemoryChatRepository
	pub      *recordingPublisher
	notifier *recordingNotifier
	users    fakeUsers
	send     *SendMessageUseCase
	alice    string
	bob      string
	carol    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     adapter.NewMemoryChatRepository(),
		pub:      &recordingPublisher{},
		notifier: &recordingNotifier{},
		alice:    uuid.NewString(),
		bob:      uuid.NewString(),
		carol:    uuid.NewString(),
	}
	f.users = fakeUsers{names: map[string]string{f.alice: "Alice", f.bob: "Bob"}, blocks: map[string]bool{}}
	f.send = NewSendMessageUseCase(f.repo, f.users, f.pub, f.notifier, time.Second, zap.NewNop())
	return f
}

func (f *fixture) direct(t *testing.T, a, b string) chat.Conversation {
	t.Helper()
	conv, err := NewCreateConversationUseCase(f.repo).Execute(context.Background(), CreateConversationInput{CallerID: a, MemberIDs: []string{b}})
	require.NoError(t, err)
	return conv
}

func (f *fixture) group(t *testing.T, members ...string) chat.Conversation {
	t.Helper()
	conv, err := NewCreateConversationUseCase(f.repo).Execute(context.Background(), CreateConversationInput{
		CallerID: members[0], MemberIDs: members[1:], IsGroup: true, Title: "team",
	})
	require.NoError(t, err)
	return conv
}

func TestSendMessageHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.direct(t, f.alice, f.bob)

	msg, err := f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: " hi ", Nonce: "n-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, chat.MessageTypeText, msg.Type)
	assert.Equal(t, "n-1", msg.Nonce)

	stored, err := f.repo.GetMessagesByConversation(ctx, conv.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, msg.ID, stored[0].ID)

	reloaded, err := f.repo.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastMessageAt.Equal(msg.CreatedAt))

	events := f.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventNewMessage, events[0].Event)
	assert.Empty(t, events[0].Exclude, "the sender receives its own confirmation")
	evt := events[0].Payload.(NewMessageEvent)
	assert.Equal(t, "n-1", evt.Message.Nonce)
	assert.Equal(t, msg.ID, evt.Message.ID)

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, []string{f.bob}, call.RecipientIDs)
	assert.Equal(t, "Alice", call.SenderName)
	assert.Empty(t, call.Message.Nonce)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)

	_, err := f.send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.carol, Text: "intruder"})
	require.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, chat.ErrNotParticipant)

	stored, _ := f.repo.GetMessagesByConversation(context.Background(), conv.ID, nil, 10)
	assert.Empty(t, stored)
	assert.Empty(t, f.pub.all())
	assert.Empty(t, f.notifier.calls)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	ctx := context.Background()

	_, err := f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Type: "sticker", Text: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.send.Execute(ctx, SendMessageInput{ConversationID: "not-a-uuid", SenderID: f.alice, Text: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.send.Execute(ctx, SendMessageInput{ConversationID: uuid.NewString(), SenderID: f.alice, Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.pub.all())
}

func TestSendMessagePersistenceFailureAborts(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	repo := &failingSaveRepo{MemoryChatRepository: f.repo, saveErr: errors.New("disk full")}
	send := NewSendMessageUseCase(repo, f.users, f.pub, f.notifier, time.Second, zap.NewNop())

	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "lost"})
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, f.pub.all())
	assert.Empty(t, f.notifier.calls)
}

func TestSendMessageSecondaryFailuresDoNotFailSend(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	repo := &failingSaveRepo{MemoryChatRepository: f.repo, touchErr: errors.New("timeout")}
	f.pub.err = errors.New("bus down")
	f.notifier.err = errors.New("queue down")
	send := NewSendMessageUseCase(repo, f.users, f.pub, f.notifier, time.Second, zap.NewNop())

	msg, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "still here"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Len(t, f.pub.all(), 1)
	assert.Len(t, f.notifier.calls, 1)
}

func TestSendMessageTimestampsStrictlyIncrease(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f.send.Now = func() time.Time { return fixed }

	var last time.Time
	for i := 0; i < 5; i++ {
		msg, err := f.send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: fmt.Sprint(i)})
		require.NoError(t, err)
		assert.True(t, msg.CreatedAt.After(last), "message %d", i)
		last = msg.CreatedAt
	}
}

func TestSendMessageBlockedDirect(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	f.users.blocks[f.bob+">"+f.alice] = true

	_, err := f.send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "hello?"})
	require.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, chat.ErrUserBlocked)

	_, err = f.send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.bob, Text: "go away"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendMessageGroupSkipsMutedAndSender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.group(t, f.alice, f.bob, f.carol)

	_, err := NewMuteConversationUseCase(f.repo).Execute(ctx, MuteConversationInput{ConversationID: conv.ID, UserID: f.carol, Mute: true})
	require.NoError(t, err)

	_, err = f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "standup"})
	require.NoError(t, err)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, []string{f.bob}, f.notifier.calls[0].RecipientIDs)
	assert.Len(t, f.pub.all(), 1, "muted members still get the broadcast")
}

func TestSendMessageSelfConversationNotifiesNobody(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.alice)

	_, err := f.send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: "note to self"})
	require.NoError(t, err)
	assert.Len(t, f.pub.all(), 1)
	assert.Empty(t, f.notifier.calls)
}

func TestConcurrentSendsBroadcastInPersistenceOrder(t *testing.T) {
	f := newFixture(t)
	conv := f.group(t, f.alice, f.bob, f.carol)
	senders := []string{f.alice, f.bob, f.carol}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.send.Execute(context.Background(), SendMessageInput{
				ConversationID: conv.ID, SenderID: senders[i%3], Text: fmt.Sprint(i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := f.repo.GetMessagesByConversation(context.Background(), conv.ID, nil, 100)
	require.NoError(t, err)
	require.Len(t, stored, 30)
	sort.Slice(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })

	events := f.pub.all()
	require.Len(t, events, 30)
	for i, e := range events {
		m := e.Payload.(NewMessageEvent).Message
		assert.Equal(t, stored[i].ID, m.ID, "position %d", i)
		if i > 0 {
			prev := events[i-1].Payload.(NewMessageEvent).Message
			assert.True(t, m.CreatedAt.After(prev.CreatedAt))
		}
	}
}

func TestGetMessagePagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.direct(t, f.alice, f.bob)
	for i := 1; i <= 3; i++ {
		_, err := f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.alice, Text: fmt.Sprint("m", i)})
		require.NoError(t, err)
	}
	uc := NewGetMessageUseCase(f.repo)

	page, err := uc.Execute(ctx, GetMessageInput{ConversationID: conv.ID, UserID: f.bob, Limit: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "m2", page.Messages[0].Text)
	assert.Equal(t, "m3", page.Messages[1].Text)
	assert.True(t, page.HasMore)

	before := page.Messages[0].CreatedAt
	older, err := uc.Execute(ctx, GetMessageInput{ConversationID: conv.ID, UserID: f.bob, Limit: intPtr(2), Before: &before})
	require.NoError(t, err)
	require.Len(t, older.Messages, 1)
	assert.Equal(t, "m1", older.Messages[0].Text)
	assert.False(t, older.HasMore)

	all, err := uc.Execute(ctx, GetMessageInput{ConversationID: conv.ID, UserID: f.alice})
	require.NoError(t, err)
	assert.Len(t, all.Messages, 3)
	assert.False(t, all.HasMore)
}

func TestGetMessageErrors(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	uc := NewGetMessageUseCase(f.repo)

	_, err := uc.Execute(context.Background(), GetMessageInput{ConversationID: conv.ID, UserID: f.carol})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Execute(context.Background(), GetMessageInput{ConversationID: conv.ID, UserID: f.alice, Limit: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.Execute(context.Background(), GetMessageInput{ConversationID: conv.ID, UserID: f.alice, Limit: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)
}

func intPtr(n int) *int { return &n }

func TestPageLimit(t *testing.T) {
	n, err := pageLimit(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageLimit, n)

	for _, bad := range []int{0, -1} {
		_, err = pageLimit(intPtr(bad))
		assert.ErrorIs(t, err, ErrValidation, "limit %d", bad)
	}

	n, err = pageLimit(intPtr(1000))
	require.NoError(t, err)
	assert.Equal(t, MaxPageLimit, n)

	n, err = pageLimit(intPtr(7))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCreateConversationReusesDirectPair(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateConversationUseCase(f.repo)
	ctx := context.Background()

	first, err := uc.Execute(ctx, CreateConversationInput{CallerID: f.alice, MemberIDs: []string{f.bob}})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, CreateConversationInput{CallerID: f.bob, MemberIDs: []string{f.alice}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	self, err := uc.Execute(ctx, CreateConversationInput{CallerID: f.alice, MemberIDs: []string{f.alice}})
	require.NoError(t, err)
	assert.Equal(t, []string{f.alice}, self.Members)
	assert.NotEqual(t, first.ID, self.ID)
}

func TestCreateConversationConcurrentDirectCreatesOne(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateConversationUseCase(f.repo)

	ids := make([]string, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv, err := uc.Execute(context.Background(), CreateConversationInput{CallerID: f.alice, MemberIDs: []string{f.bob}})
			assert.NoError(t, err)
			ids[i] = conv.ID
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestCreateConversationValidation(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateConversationUseCase(f.repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateConversationInput{CallerID: f.alice})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.Execute(ctx, CreateConversationInput{CallerID: f.alice, MemberIDs: []string{f.bob, f.carol}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.Execute(ctx, CreateConversationInput{CallerID: f.alice, MemberIDs: []string{"bob"}})
	assert.ErrorIs(t, err, ErrValidation)

	g, err := uc.Execute(ctx, CreateConversationInput{CallerID: f.alice, MemberIDs: []string{f.bob, f.carol}, IsGroup: true, Title: " trio "})
	require.NoError(t, err)
	assert.True(t, g.IsGroup)
	assert.Equal(t, "trio", g.Title)
	assert.ElementsMatch(t, []string{f.alice, f.bob, f.carol}, g.Members)
}

func TestListConversationsDedupesDirectPairs(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	older := f.repo.SeedConversation(chat.Conversation{Members: []string{f.alice, f.bob}, LastMessageAt: base})
	newer := f.repo.SeedConversation(chat.Conversation{Members: []string{f.alice, f.bob}, LastMessageAt: base.Add(time.Hour)})
	self := f.repo.SeedConversation(chat.Conversation{Members: []string{f.alice}, LastMessageAt: base.Add(2 * time.Hour)})
	grp := f.repo.SeedConversation(chat.Conversation{Members: []string{f.alice, f.bob}, IsGroup: true, LastMessageAt: base.Add(-time.Hour)})

	convs, err := NewListConversationsUseCase(f.repo).Execute(context.Background(), ListConversationsInput{UserID: f.alice})
	require.NoError(t, err)
	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{self.ID, newer.ID, grp.ID}, ids)
	assert.NotContains(t, ids, older.ID)
}

func TestJoinAndGetConversation(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	ctx := context.Background()

	join := NewJoinConversationUseCase(f.repo)
	assert.NoError(t, join.Execute(ctx, JoinConversationInput{ConversationID: conv.ID, UserID: f.bob}))
	assert.ErrorIs(t, join.Execute(ctx, JoinConversationInput{ConversationID: conv.ID, UserID: f.carol}), ErrForbidden)
	assert.ErrorIs(t, join.Execute(ctx, JoinConversationInput{ConversationID: uuid.NewString(), UserID: f.bob}), ErrNotFound)
	assert.ErrorIs(t, join.Execute(ctx, JoinConversationInput{UserID: f.bob}), ErrValidation)

	got, err := NewGetConversationUseCase(f.repo).Execute(ctx, GetConversationInput{ConversationID: conv.ID, UserID: f.alice})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.alice, f.bob}, got.Members)
}

func TestTypingExcludesSender(t *testing.T) {
	pub := &recordingPublisher{}
	err := NewTypingUseCase(pub).Execute(context.Background(), TypingInput{ConversationID: "c1", UserID: "u1", IsTyping: true})
	require.NoError(t, err)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventTyping, events[0].Event)
	assert.Equal(t, "u1", events[0].Exclude)
	assert.Equal(t, TypingEvent{ConversationID: "c1", UserID: "u1", IsTyping: true}, events[0].Payload)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conv := f.direct(t, f.alice, f.bob)
	for i := 0; i < 3; i++ {
		_, err := f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.bob, Text: "x"})
		require.NoError(t, err)
	}
	uc := NewClearHistoryUseCase(f.repo, f.send)

	_, err := uc.Execute(ctx, ClearHistoryInput{ConversationID: conv.ID, UserID: f.carol})
	assert.ErrorIs(t, err, ErrForbidden)

	n, err := uc.Execute(ctx, ClearHistoryInput{ConversationID: conv.ID, UserID: f.alice})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	page, err := NewGetMessageUseCase(f.repo).Execute(ctx, GetMessageInput{ConversationID: conv.ID, UserID: f.bob})
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
}

func TestMuteToggle(t *testing.T) {
	f := newFixture(t)
	conv := f.direct(t, f.alice, f.bob)
	uc := NewMuteConversationUseCase(f.repo)
	ctx := context.Background()

	got, err := uc.Execute(ctx, MuteConversationInput{ConversationID: conv.ID, UserID: f.bob, Mute: true})
	require.NoError(t, err)
	assert.True(t, got.IsMutedBy(f.bob))

	got, err = uc.Execute(ctx, MuteConversationInput{ConversationID: conv.ID, UserID: f.bob, Mute: false})
	require.NoError(t, err)
	assert.False(t, got.IsMutedBy(f.bob))

	_, err = uc.Execute(ctx, MuteConversationInput{ConversationID: conv.ID, UserID: f.carol, Mute: true})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGroupLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dave := uuid.NewString()

	g, conv, err := NewCreateGroupUseCase(f.repo).Execute(ctx, CreateGroupInput{
		CreatorID: f.alice, Name: " Hiking ", MemberIDs: []string{f.bob},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hiking", g.Name)
	assert.Equal(t, conv.ID, g.ConversationID)
	assert.Equal(t, 2, g.MembersCount)
	assert.True(t, conv.IsGroup)

	groups, err := NewListGroupsUseCase(f.repo).Execute(ctx, ListGroupsInput{UserID: f.bob})
	require.NoError(t, err)
	require.Len(t, groups, 1)

	add := NewAddGroupMemberUseCase(f.repo)
	_, err = add.Execute(ctx, AddGroupMemberInput{GroupID: g.ID, CallerID: f.carol, UserID: dave})
	assert.ErrorIs(t, err, ErrForbidden)

	g, err = add.Execute(ctx, AddGroupMemberInput{GroupID: g.ID, CallerID: f.bob, UserID: f.carol})
	require.NoError(t, err)
	assert.Equal(t, 3, g.MembersCount)
	_, err = f.send.Execute(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: f.carol, Text: "thanks"})
	require.NoError(t, err)

	del := NewDeleteGroupUseCase(f.repo, f.send)
	assert.ErrorIs(t, del.Execute(ctx, DeleteGroupInput{GroupID: g.ID, CallerID: f.bob}), ErrForbidden)
	assert.ErrorIs(t, del.Execute(ctx, DeleteGroupInput{GroupID: uuid.NewString(), CallerID: f.alice}), ErrNotFound)
	require.NoError(t, del.Execute(ctx, DeleteGroupInput{GroupID: g.ID, CallerID: f.alice}))

	_, err = NewGetConversationUseCase(f.repo).Execute(ctx, GetConversationInput{ConversationID: conv.ID, UserID: f.alice})
	assert.ErrorIs(t, err, ErrNotFound)
	stored, err := f.repo.GetMessagesByConversation(ctx, conv.ID, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreateGroupRequiresName(t *testing.T) {
	f := newFixture(t)
	_, _, err := NewCreateGroupUseCase(f.repo).Execute(context.Background(), CreateGroupInput{CreatorID: f.alice, Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

type fakeDeliverer struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []notificationUC.DeliverNotificationInput
}

func (d *fakeDeliverer) Execute(_ context.Context, in notificationUC.DeliverNotificationInput) (*notification.Notification, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, in)
	if d.fail[in.Notification.UserID] {
		return nil, errors.New("store down")
	}
	n := in.Notification
	return &n, nil
}

func TestNotifyMembersContinuesPastFailures(t *testing.T) {
	d := &fakeDeliverer{fail: map[string]bool{"u2": true}}
	uc := NewNotifyMembersUseCase(d, zap.NewNop())
	msg := chat.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", Type: chat.MessageTypeText, Text: "lunch?"}

	err := uc.NotifyMembers(context.Background(), NotifyMembersInput{Message: msg, SenderName: "Alice", RecipientIDs: []string{"u2", "u3"}})
	require.NoError(t, err)
	require.Len(t, d.calls, 2)

	last := d.calls[1]
	assert.Equal(t, "u3", last.Notification.UserID)
	assert.Equal(t, notification.KindMessage, last.Notification.Kind)
	assert.Equal(t, chat.NotificationTitle("Alice"), last.Notification.Title)
	assert.Equal(t, "lunch?", last.Notification.Body)
	assert.Equal(t, "c1", last.Notification.RelatedID)
	assert.Equal(t, realtime.EventMessageNotification, last.Event)
	assert.Equal(t, "Alice", last.Extra["senderName"])
	assert.Equal(t, "c1", last.Extra["conversationId"])
	assert.Equal(t, dto.FromMessage(msg), last.Extra["message"])
}
