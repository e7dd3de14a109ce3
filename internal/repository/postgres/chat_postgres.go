package postgres

import (
	"context"
	"database/sql"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// ChatPostgres is a PostgreSQL implementation of repository.ChatRepository.
type ChatPostgres struct {
	db *sql.DB
}

// NewChatPostgres creates a new ChatPostgres repository.
func NewChatPostgres(db *sql.DB) *ChatPostgres {
	return &ChatPostgres{db: db}
}

var _ repository.ChatRepository = (*ChatPostgres)(nil)

const (
	chatColumns    = `id, user_id, title, created_at, updated_at`
	messageColumns = `id, chat_id, role, content, created_at`
)

func scanChat(s rowScanner) (*model.Chat, error) {
	var c model.Chat
	if err := s.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanMessage(s rowScanner) (*model.ChatMessage, error) {
	var m model.ChatMessage
	if err := s.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ChatPostgres) Create(ctx context.Context, c *model.Chat) (*model.Chat, error) {
	const q = `
		INSERT INTO chats (id, user_id, title)
		VALUES (COALESCE(NULLIF($1, '')::uuid, uuid_generate_v4()), $2, $3)
		RETURNING ` + chatColumns
	return scanChat(r.db.QueryRowContext(ctx, q, c.ID, c.UserID, c.Title))
}

func (r *ChatPostgres) FindByID(ctx context.Context, id string) (*model.Chat, error) {
	const q = `SELECT ` + chatColumns + ` FROM chats WHERE id = $1`
	return scanChat(r.db.QueryRowContext(ctx, q, id))
}

func (r *ChatPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Chat], error) {
	const qCount = `SELECT COUNT(*) FROM chats WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Chat]{Items: items, Total: total}, nil
}

func (r *ChatPostgres) UpdateTitle(ctx context.Context, id, title string) (*model.Chat, error) {
	const q = `UPDATE chats SET title = $2, updated_at = now() WHERE id = $1 RETURNING ` + chatColumns
	return scanChat(r.db.QueryRowContext(ctx, q, id, title))
}

// Delete removes a chat and, through the foreign key, its messages.
func (r *ChatPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM chats WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// AddMessage inserts the message and touches the parent chat in one transaction.
func (r *ChatPostgres) AddMessage(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const qInsert = `
		INSERT INTO chat_messages (id, chat_id, role, content)
		VALUES (COALESCE(NULLIF($1, '')::uuid, uuid_generate_v4()), $2, $3, $4)
		RETURNING ` + messageColumns
	out, err := scanMessage(tx.QueryRowContext(ctx, qInsert, m.ID, m.ChatID, m.Role, m.Content))
	if err != nil {
		return nil, err
	}

	const qTouch = `UPDATE chats SET updated_at = now() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, qTouch, m.ChatID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChatPostgres) ListMessages(ctx context.Context, chatID string, pq repository.PageQuery) (*repository.PageResult[model.ChatMessage], error) {
	const qCount = `SELECT COUNT(*) FROM chat_messages WHERE chat_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, chatID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + messageColumns + `
		FROM chat_messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, chatID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ChatMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.ChatMessage]{Items: items, Total: total}, nil
}
