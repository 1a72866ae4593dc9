package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status int

const (
	StatusConfirmed Status = iota
	StatusPending
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "confirmed"
	}
}

// Entry is one rendered message. Pending and failed entries have no server id.
type Entry struct {
	Message
	Status Status
}

// Outcome reports what Apply did with a confirmed message.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeDuplicate
	OutcomeReplaced
	OutcomeAppended
)

type TimelineOption func(*Timeline)

// RequireNonce disables the sender+text fallback so only a matching nonce
// can confirm an optimistic entry.
func RequireNonce() TimelineOption {
	return func(t *Timeline) { t.contentMatch = false }
}

// WithClock overrides the clock used to stamp optimistic entries.
func WithClock(now func() time.Time) TimelineOption {
	return func(t *Timeline) { t.now = now }
}

// Timeline is the locally held ordered sequence of one conversation.
type Timeline struct {
	mu             sync.Mutex
	conversationID string
	entries        []Entry
	ids            map[string]struct{}
	hasMore        bool
	contentMatch   bool
	now            func() time.Time
}

func NewTimeline(conversationID string, opts ...TimelineOption) *Timeline {
	t := &Timeline{
		conversationID: conversationID,
		ids:            make(map[string]struct{}),
		hasMore:        true,
		contentMatch:   true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timeline) ConversationID() string { return t.conversationID }

// AddPending appends an optimistic entry carrying a fresh nonce.
func (t *Timeline) AddPending(senderID, text string, attachments []Attachment) Entry {
	e := Entry{
		Message: Message{
			ConversationID: t.conversationID,
			SenderID:       senderID,
			Type:           "text",
			Text:           text,
			Attachments:    attachments,
			CreatedAt:      t.now(),
			Nonce:          uuid.NewString(),
		},
		Status: StatusPending,
	}
	if len(attachments) > 0 {
		e.Type = "file"
	}
	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()
	return e
}

// Apply merges a server-confirmed message. Applying the same message twice
// leaves the timeline as applying it once.
func (t *Timeline) Apply(m Message) Outcome {
	if m.ID == "" || (m.ConversationID != "" && m.ConversationID != t.conversationID) {
		return OutcomeIgnored
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.ids[m.ID]; ok {
		// A history page may have delivered the server copy first.
		if m.Nonce != "" {
			if i := t.findPending(func(e Entry) bool { return e.Nonce == m.Nonce }); i >= 0 {
				t.entries = append(t.entries[:i], t.entries[i+1:]...)
			}
		}
		return OutcomeDuplicate
	}
	t.ids[m.ID] = struct{}{}

	if i := t.matchPending(m); i >= 0 {
		t.entries[i] = Entry{Message: m, Status: StatusConfirmed}
		return OutcomeReplaced
	}
	t.entries = append(t.entries, Entry{Message: m, Status: StatusConfirmed})
	return OutcomeAppended
}

// matchPending picks the optimistic entry m confirms: the nonce match first,
// then the first pending entry with the same sender and text.
func (t *Timeline) matchPending(m Message) int {
	if m.Nonce != "" {
		if i := t.findPending(func(e Entry) bool { return e.Nonce == m.Nonce }); i >= 0 {
			return i
		}
	}
	if !t.contentMatch {
		return -1
	}
	return t.findPending(func(e Entry) bool { return e.SenderID == m.SenderID && e.Text == m.Text })
}

func (t *Timeline) findPending(match func(Entry) bool) int {
	for i, e := range t.entries {
		if e.Status == StatusPending && match(e) {
			return i
		}
	}
	return -1
}

// Prepend places an older history page (oldest first) before everything held.
// Messages already present are skipped, and a page message that confirms a
// pending entry replaces it. It returns how many were added.
func (t *Timeline) Prepend(p Page) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	older := make([]Entry, 0, len(p.Messages))
	for _, m := range p.Messages {
		if m.ID == "" {
			continue
		}
		if _, ok := t.ids[m.ID]; ok {
			continue
		}
		t.ids[m.ID] = struct{}{}
		if i := t.matchPending(m); i >= 0 {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
		}
		older = append(older, Entry{Message: m, Status: StatusConfirmed})
	}
	t.entries = append(older, t.entries...)
	t.hasMore = p.HasMore
	return len(older)
}

// Before returns the cursor for the next history request: the timestamp of
// the oldest confirmed entry.
func (t *Timeline) Before() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.Status == StatusConfirmed {
			return e.CreatedAt, true
		}
	}
	return time.Time{}, false
}

func (t *Timeline) HasMore() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasMore
}

// MarkFailed flags the pending entry carrying nonce. It reports whether one was found.
func (t *Timeline) MarkFailed(nonce string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.findPending(func(e Entry) bool { return nonce != "" && e.Nonce == nonce })
	if i < 0 {
		return false
	}
	t.entries[i].Status = StatusFailed
	return true
}

// Revert removes an unconfirmed entry carrying nonce.
func (t *Timeline) Revert(nonce string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.entries {
		if e.Status != StatusConfirmed && nonce != "" && e.Nonce == nonce {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a snapshot in display order.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
