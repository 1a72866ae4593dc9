package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-messenger/internal/infrastructure/database"
	chat "go-messenger/internal/pkg/chat/application/domain"
	repository "go-messenger/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var errNilPool = errors.New("PgChatRepository: nil pool")

const conversationSelect = `
	SELECT c.id::text, COALESCE(c.title, ''), c.is_group, COALESCE(c.direct_key, ''),
	       c.last_message_at, c.created_at,
	       COALESCE(array_agg(p.user_id ORDER BY p.joined_at) FILTER (WHERE p.user_id IS NOT NULL), '{}'),
	       COALESCE(array_agg(p.user_id) FILTER (WHERE p.muted), '{}')
	FROM chat.conversation c
	LEFT JOIN chat.participant p ON p.conversation_id = c.id
`

func scanConversation(row pgx.Row) (chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.Title, &c.IsGroup, &c.DirectKey, &c.LastMessageAt, &c.CreatedAt, &c.Members, &c.MutedBy)
	return c, err
}

func collectConversations(rows pgx.Rows) ([]chat.Conversation, error) {
	defer rows.Close()
	var out []chat.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errNilPool
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return insertConversation(ctx, tx, &c)
	})
	if database.IsUniqueViolation(err) {
		return chat.Conversation{}, repository.ErrDirectConversationExists
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

func insertConversation(ctx context.Context, tx pgx.Tx, c *chat.Conversation) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (title, is_group, direct_key, last_message_at, created_at)
		VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), $4, $5)
		RETURNING id::text
	`, c.Title, c.IsGroup, c.DirectKey, c.LastMessageAt, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return err
	}
	for _, uid := range c.Members {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id, joined_at)
			VALUES ($1::uuid, $2, $3)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, c.ID, uid, c.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errNilPool
	}
	c, err := scanConversation(r.pool.QueryRow(ctx, conversationSelect+`
		WHERE c.id = $1::uuid
		GROUP BY c.id
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return c, err
}

func (r *PgChatRepository) FindDirectConversations(ctx context.Context, a, b string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	want := 2
	if a == b {
		want = 1
	}
	rows, err := r.pool.Query(ctx, conversationSelect+`
		WHERE NOT c.is_group
		  AND c.id IN (SELECT conversation_id FROM chat.participant WHERE user_id = $1)
		  AND c.id IN (SELECT conversation_id FROM chat.participant WHERE user_id = $2)
		GROUP BY c.id
		HAVING count(p.user_id) = $3
		ORDER BY c.last_message_at DESC
	`, a, b, want)
	if err != nil {
		return nil, err
	}
	return collectConversations(rows)
}

func (r *PgChatRepository) ListConversationsForUser(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, conversationSelect+`
		WHERE c.id IN (SELECT conversation_id FROM chat.participant WHERE user_id = $1)
		GROUP BY c.id
		ORDER BY c.last_message_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectConversations(rows)
}

func (r *PgChatRepository) AddParticipant(ctx context.Context, conversationID, userID string) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.participant (conversation_id, user_id)
		VALUES ($1::uuid, $2)
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`, conversationID, userID)
	return err
}

func (r *PgChatRepository) SetMuted(ctx context.Context, conversationID, userID string, muted bool) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.participant
		SET muted = $3
		WHERE conversation_id = $1::uuid AND user_id = $2
	`, conversationID, userID, muted)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) TouchLastMessageAt(ctx context.Context, conversationID string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_at = GREATEST(last_message_at, $2)
		WHERE id = $1::uuid
	`, conversationID, at)
	return err
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if r == nil || r.pool == nil {
		return chat.Message{}, errNilPool
	}
	atts, err := marshalAttachments(m.Attachments)
	if err != nil {
		return chat.Message{}, err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, msg_type, body, attachments, created_at)
		VALUES ($1::uuid, $2, $3, NULLIF($4, ''), $5::jsonb, $6)
		RETURNING id::text, seq
	`, m.ConversationID, m.SenderID, string(m.Type), m.Text, atts, m.CreatedAt).Scan(&m.ID, &m.Seq)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, seq, conversation_id::text, sender_id, msg_type, COALESCE(body, ''), attachments, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		  AND ($2::timestamptz IS NULL OR created_at < $2::timestamptz)
		ORDER BY created_at DESC, seq DESC
		LIMIT $3
	`, conversationID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg     chat.Message
			msgType string
			atts    []byte
		)
		if err := rows.Scan(&msg.ID, &msg.Seq, &msg.ConversationID, &msg.SenderID, &msgType, &msg.Text, &atts, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Type = chat.MessageType(msgType)
		if len(atts) > 0 {
			if err := json.Unmarshal(atts, &msg.Attachments); err != nil {
				return nil, fmt.Errorf("decode attachments of %s: %w", msg.ID, err)
			}
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) DeleteMessagesByConversation(ctx context.Context, conversationID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errNilPool
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM chat.message WHERE conversation_id = $1::uuid`, conversationID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) CreateGroup(ctx context.Context, g chat.Group, conv chat.Conversation, members []chat.GroupMember) (chat.Group, chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Group{}, chat.Conversation{}, errNilPool
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertConversation(ctx, tx, &conv); err != nil {
			return err
		}
		g.ConversationID = conv.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO chat.chat_group (name, avatar_url, created_by, conversation_id, created_at)
			VALUES ($1, NULLIF($2, ''), $3, $4::uuid, $5)
			RETURNING id::text
		`, g.Name, g.AvatarURL, g.CreatedBy, g.ConversationID, g.CreatedAt).Scan(&g.ID); err != nil {
			return err
		}
		for _, m := range members {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat.group_member (group_id, user_id, role, created_at)
				VALUES ($1::uuid, $2, $3, $4)
				ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role
			`, g.ID, m.UserID, string(m.Role), m.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return chat.Group{}, chat.Conversation{}, err
	}
	g.MembersCount = len(members)
	return g, conv, nil
}

const groupSelect = `
	SELECT g.id::text, g.name, COALESCE(g.avatar_url, ''), g.created_by,
	       COALESCE(g.conversation_id::text, ''), g.created_at,
	       (SELECT count(*) FROM chat.group_member gm WHERE gm.group_id = g.id)
	FROM chat.chat_group g
`

func scanGroup(row pgx.Row) (chat.Group, error) {
	var g chat.Group
	err := row.Scan(&g.ID, &g.Name, &g.AvatarURL, &g.CreatedBy, &g.ConversationID, &g.CreatedAt, &g.MembersCount)
	return g, err
}

func (r *PgChatRepository) GetGroup(ctx context.Context, id string) (chat.Group, error) {
	if r == nil || r.pool == nil {
		return chat.Group{}, errNilPool
	}
	g, err := scanGroup(r.pool.QueryRow(ctx, groupSelect+` WHERE g.id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Group{}, repository.ErrNotFound
	}
	return g, err
}

func (r *PgChatRepository) ListGroupsForUser(ctx context.Context, userID string) ([]chat.Group, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, groupSelect+`
		WHERE g.id IN (SELECT group_id FROM chat.group_member WHERE user_id = $1)
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []chat.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PgChatRepository) AddGroupMember(ctx context.Context, m chat.GroupMember) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var conversationID *string
		err := tx.QueryRow(ctx, `SELECT conversation_id::text FROM chat.chat_group WHERE id = $1::uuid`, m.GroupID).Scan(&conversationID)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.group_member (group_id, user_id, role, created_at)
			VALUES ($1::uuid, $2, $3, $4)
			ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role
		`, m.GroupID, m.UserID, string(m.Role), m.CreatedAt); err != nil {
			return err
		}
		if conversationID == nil {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id)
			VALUES ($1::uuid, $2)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, *conversationID, m.UserID)
		return err
	})
}

func (r *PgChatRepository) DeleteGroup(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var conversationID *string
		err := tx.QueryRow(ctx, `
			DELETE FROM chat.chat_group WHERE id = $1::uuid
			RETURNING conversation_id::text
		`, id).Scan(&conversationID)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if conversationID == nil {
			return nil
		}
		// participant and message rows cascade from the conversation
		_, err = tx.Exec(ctx, `DELETE FROM chat.conversation WHERE id = $1::uuid`, *conversationID)
		return err
	})
}

func marshalAttachments(atts []chat.Attachment) (string, error) {
	if len(atts) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(atts)
	if err != nil {
		return "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(b), nil
}
