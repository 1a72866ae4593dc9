package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository keeps chat state in process memory. It enforces the
// same direct-pair uniqueness and cascades as the Postgres schema.
type MemoryChatRepository struct {
	mu            sync.RWMutex
	seq           int64
	conversations map[string]*chat.Conversation
	directKeys    map[string]string // direct_key -> conversation id
	messages      map[string][]chat.Message
	groups        map[string]*chat.Group
	groupMembers  map[string]map[string]chat.GroupMember
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		conversations: make(map[string]*chat.Conversation),
		directKeys:    make(map[string]string),
		messages:      make(map[string][]chat.Message),
		groups:        make(map[string]*chat.Group),
		groupMembers:  make(map[string]map[string]chat.GroupMember),
	}
}

// SeedConversation stores c as-is, bypassing the direct-pair index. It models
// rows written before uniqueness was enforced.
func (r *MemoryChatRepository) SeedConversation(c chat.Conversation) chat.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Members = append([]string(nil), c.Members...)
	r.conversations[c.ID] = &c
	return c
}

func (r *MemoryChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return chat.Conversation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertConversationLocked(c)
}

func (r *MemoryChatRepository) insertConversationLocked(c chat.Conversation) (chat.Conversation, error) {
	if !c.IsGroup && c.DirectKey != "" {
		if _, exists := r.directKeys[c.DirectKey]; exists {
			return chat.Conversation{}, repository.ErrDirectConversationExists
		}
	}
	c.ID = uuid.NewString()
	c.Members = chat.UniqueMembers(c.Members)
	c.MutedBy = nil
	r.conversations[c.ID] = &c
	if !c.IsGroup && c.DirectKey != "" {
		r.directKeys[c.DirectKey] = c.ID
	}
	return cloneConversation(c), nil
}

func (r *MemoryChatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return chat.Conversation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conversations[id]
	if !ok {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return cloneConversation(*c), nil
}

func (r *MemoryChatRepository) FindDirectConversations(ctx context.Context, a, b string) ([]chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := chat.UniqueMembers([]string{a, b})
	r.mu.RLock()
	var out []chat.Conversation
	for _, c := range r.conversations {
		if c.IsGroup || !sameMembers(c.Members, want) {
			continue
		}
		out = append(out, cloneConversation(*c))
	}
	r.mu.RUnlock()
	sortByActivity(out)
	return out, nil
}

func (r *MemoryChatRepository) ListConversationsForUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []chat.Conversation
	for _, c := range r.conversations {
		if c.HasMember(userID) {
			out = append(out, cloneConversation(*c))
		}
	}
	r.mu.RUnlock()
	sortByActivity(out)
	return out, nil
}

func (r *MemoryChatRepository) AddParticipant(ctx context.Context, conversationID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	if !c.HasMember(userID) {
		c.Members = append(c.Members, userID)
	}
	return nil
}

func (r *MemoryChatRepository) SetMuted(ctx context.Context, conversationID, userID string, muted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok || !c.HasMember(userID) {
		return repository.ErrNotFound
	}
	kept := c.MutedBy[:0:0]
	for _, id := range c.MutedBy {
		if id != userID {
			kept = append(kept, id)
		}
	}
	if muted {
		kept = append(kept, userID)
	}
	c.MutedBy = kept
	return nil
}

func (r *MemoryChatRepository) TouchLastMessageAt(ctx context.Context, conversationID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[conversationID]
	if !ok {
		return repository.ErrNotFound
	}
	if at.After(c.LastMessageAt) {
		c.LastMessageAt = at
	}
	return nil
}

func (r *MemoryChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[m.ConversationID]; !ok {
		return chat.Message{}, repository.ErrNotFound
	}
	r.seq++
	m.ID = uuid.NewString()
	m.Seq = r.seq
	m.Nonce = ""
	m.Attachments = append([]chat.Attachment(nil), m.Attachments...)
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	return m, nil
}

func (r *MemoryChatRepository) GetMessagesByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []chat.Message
	for _, m := range r.messages[conversationID] {
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryChatRepository) DeleteMessagesByConversation(ctx context.Context, conversationID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.messages[conversationID]))
	delete(r.messages, conversationID)
	return n, nil
}

func (r *MemoryChatRepository) CreateGroup(ctx context.Context, g chat.Group, conv chat.Conversation, members []chat.GroupMember) (chat.Group, chat.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return chat.Group{}, chat.Conversation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, err := r.insertConversationLocked(conv)
	if err != nil {
		return chat.Group{}, chat.Conversation{}, err
	}
	g.ID = uuid.NewString()
	g.ConversationID = conv.ID
	set := make(map[string]chat.GroupMember, len(members))
	for _, m := range members {
		m.GroupID = g.ID
		set[m.UserID] = m
	}
	g.MembersCount = len(set)
	r.groups[g.ID] = &g
	r.groupMembers[g.ID] = set
	return g, conv, nil
}

func (r *MemoryChatRepository) GetGroup(ctx context.Context, id string) (chat.Group, error) {
	if err := ctx.Err(); err != nil {
		return chat.Group{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	if !ok {
		return chat.Group{}, repository.ErrNotFound
	}
	return *g, nil
}

func (r *MemoryChatRepository) ListGroupsForUser(ctx context.Context, userID string) ([]chat.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []chat.Group
	for id, members := range r.groupMembers {
		if _, ok := members[userID]; ok {
			out = append(out, *r.groups[id])
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryChatRepository) AddGroupMember(ctx context.Context, m chat.GroupMember) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[m.GroupID]
	if !ok {
		return repository.ErrNotFound
	}
	r.groupMembers[g.ID][m.UserID] = m
	g.MembersCount = len(r.groupMembers[g.ID])
	if c, ok := r.conversations[g.ConversationID]; ok && !c.HasMember(m.UserID) {
		c.Members = append(c.Members, m.UserID)
	}
	return nil
}

func (r *MemoryChatRepository) DeleteGroup(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.groups, id)
	delete(r.groupMembers, id)
	delete(r.conversations, g.ConversationID)
	delete(r.messages, g.ConversationID)
	return nil
}

func cloneConversation(c chat.Conversation) chat.Conversation {
	c.Members = append([]string(nil), c.Members...)
	c.MutedBy = append([]string(nil), c.MutedBy...)
	return c
}

func sortByActivity(convs []chat.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
}

func sameMembers(members, want []string) bool {
	got := chat.UniqueMembers(members)
	if len(got) != len(want) {
		return false
	}
	for _, id := range want {
		found := false
		for _, m := range got {
			if m == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
