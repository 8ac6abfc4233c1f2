package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/murmurchat/murmur/internal/domain"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

const messageColumns = `id, room_id, user_id, content, message_type, created_at, edited_at, is_deleted`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Content, &m.MessageType,
		&m.CreatedAt, &m.EditedAt, &m.IsDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, roomID, userID int64, content, messageType string) (*domain.Message, error) {
	return scanMessage(r.pool.QueryRow(ctx, `
		INSERT INTO messages (room_id, user_id, content, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING `+messageColumns,
		roomID, userID, content, messageType))
}

func (r *MessageRepository) Update(ctx context.Context, id int64, content string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET content = $1, edited_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND is_deleted = false`,
		content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// Delete soft-deletes, history endpoints filter deleted rows out.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_deleted = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	return scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

func (r *MessageRepository) GetByRoom(ctx context.Context, roomID int64, limit, offset int) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE room_id = $1 AND is_deleted = false
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
