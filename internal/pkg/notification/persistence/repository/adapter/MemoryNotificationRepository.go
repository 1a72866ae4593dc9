package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	notification "go-messenger/internal/pkg/notification/application/domain"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

type MemoryNotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
	now   func() time.Time
}

var _ repository.NotificationRepository = (*MemoryNotificationRepository)(nil)

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{now: time.Now}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if err := ctx.Err(); err != nil {
		return notification.Notification{}, err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = r.now().UTC()
	n.IsRead = false
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
	return n, nil
}

func (r *MemoryNotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []notification.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *MemoryNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}
