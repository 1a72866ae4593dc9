package adapter

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	repository "go-messenger/internal/repository/port"
)

// StartingBalance matches the app_user.balance column default.
const StartingBalance int64 = 1000

type pair struct{ a, b string }

// MemoryUserRepository keeps users and their social graph in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*repository.User
	friends map[pair]struct{}
	blocks  map[pair]struct{}
	now     func() time.Time
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*repository.User),
		friends: make(map[pair]struct{}),
		blocks:  make(map[pair]struct{}),
		now:     time.Now,
	}
}

// Locked runs fn with exclusive access to the user table.
func (r *MemoryUserRepository) Locked(fn func(users map[string]*repository.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.users)
}

func (r *MemoryUserRepository) Upsert(ctx context.Context, u repository.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		u.Balance = StartingBalance
		u.CreatedAt = r.now()
		u.IsOnline = false
		u.LastSeenAt = nil
		r.users[u.ID] = &u
		return nil
	}
	if u.Username != "" {
		existing.Username = u.Username
	}
	if u.DisplayName != "" {
		existing.DisplayName = u.DisplayName
	}
	if u.AvatarURL != "" {
		existing.AvatarURL = u.AvatarURL
	}
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if username != "" && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MemoryUserRepository) Search(ctx context.Context, query string, limit int) ([]repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	r.mu.RLock()
	var out []repository.User
	for _, u := range r.users {
		if q == "" || strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.DisplayName), q) {
			out = append(out, *u)
		}
	}
	r.mu.RUnlock()
	sortUsers(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryUserRepository) SetPresence(ctx context.Context, id string, online bool, seenAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsOnline = online
	u.LastSeenAt = &seenAt
	return nil
}

func (r *MemoryUserRepository) AddFriendship(ctx context.Context, a, b string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.friends[pair{a, b}] = struct{}{}
	r.friends[pair{b, a}] = struct{}{}
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) RemoveFriendship(ctx context.Context, a, b string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.removeFriendshipLocked(a, b)
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) removeFriendshipLocked(a, b string) {
	delete(r.friends, pair{a, b})
	delete(r.friends, pair{b, a})
}

func (r *MemoryUserRepository) ListFriends(ctx context.Context, id string) ([]repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.related(r.friends, id), nil
}

func (r *MemoryUserRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.blocks[pair{blockerID, blockedID}] = struct{}{}
	r.removeFriendshipLocked(blockerID, blockedID)
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.blocks, pair{blockerID, blockedID})
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) ListBlocked(ctx context.Context, blockerID string) ([]repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.related(r.blocks, blockerID), nil
}

func (r *MemoryUserRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.blocks[pair{blockerID, blockedID}]
	return ok, nil
}

func (r *MemoryUserRepository) related(edges map[pair]struct{}, id string) []repository.User {
	r.mu.RLock()
	var out []repository.User
	for e := range edges {
		if e.a != id {
			continue
		}
		if u, ok := r.users[e.b]; ok {
			out = append(out, *u)
		}
	}
	r.mu.RUnlock()
	sortUsers(out)
	return out
}

func sortUsers(users []repository.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Username != users[j].Username {
			return users[i].Username < users[j].Username
		}
		return users[i].ID < users[j].ID
	})
}
