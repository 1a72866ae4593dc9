package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "go-messenger/internal/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userSelect = `
	SELECT id, username, display_name, COALESCE(avatar_url, ''), is_online, last_seen_at, balance, created_at
	FROM chat.app_user
`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.IsOnline, &u.LastSeenAt, &u.Balance, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]repository.User, error) {
	defer rows.Close()
	var out []repository.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *PgUserRepository) Upsert(ctx context.Context, u repository.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.app_user (id, username, display_name, avatar_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE SET
			username     = COALESCE(NULLIF(EXCLUDED.username, ''), chat.app_user.username),
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), chat.app_user.display_name),
			avatar_url   = COALESCE(EXCLUDED.avatar_url, chat.app_user.avatar_url)
	`, u.ID, u.Username, u.DisplayName, u.AvatarURL)
	return err
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	return u, err
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*repository.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	return u, err
}

func (r *PgUserRepository) Search(ctx context.Context, query string, limit int) ([]repository.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+`
		WHERE $1 = '' OR username ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *PgUserRepository) SetPresence(ctx context.Context, id string, online bool, seenAt time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.app_user SET is_online = $2, last_seen_at = $3 WHERE id = $1
	`, id, online, seenAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) AddFriendship(ctx context.Context, a, b string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.friend (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`, a, b)
	return err
}

func (r *PgUserRepository) RemoveFriendship(ctx context.Context, a, b string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM chat.friend
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, a, b)
	return err
}

func (r *PgUserRepository) ListFriends(ctx context.Context, id string) ([]repository.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+`
		WHERE id IN (SELECT friend_id FROM chat.friend WHERE user_id = $1)
		ORDER BY username
	`, id)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *PgUserRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.block (blocker_id, blocked_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, blockerID, blockedID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			DELETE FROM chat.friend
			WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
		`, blockerID, blockedID)
		return err
	})
}

func (r *PgUserRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chat.block WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	return err
}

func (r *PgUserRepository) ListBlocked(ctx context.Context, blockerID string) ([]repository.User, error) {
	rows, err := r.pool.Query(ctx, userSelect+`
		WHERE id IN (SELECT blocked_id FROM chat.block WHERE blocker_id = $1)
		ORDER BY username
	`, blockerID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *PgUserRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chat.block WHERE blocker_id = $1 AND blocked_id = $2)
	`, blockerID, blockedID).Scan(&exists)
	return exists, err
}
