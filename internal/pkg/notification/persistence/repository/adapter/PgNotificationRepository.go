package adapter

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	notification "go-messenger/internal/pkg/notification/application/domain"
	repository "go-messenger/internal/pkg/notification/persistence/repository/port"
)

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

var _ repository.NotificationRepository = (*PgNotificationRepository)(nil)

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

func (r *PgNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.notification (user_id, kind, title, body, related_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id::text, created_at
	`, n.UserID, string(n.Kind), n.Title, n.Body, n.RelatedID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PgNotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id, kind, title, body, COALESCE(related_id, ''), is_read, created_at
		FROM chat.notification
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notification.Notification
	for rows.Next() {
		var (
			n    notification.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Body, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = notification.Kind(kind)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.notification SET is_read = TRUE
		WHERE id = $1::uuid AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.notification SET is_read = TRUE
		WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
