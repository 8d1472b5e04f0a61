package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Compile-time check
var _ chat.Repository = (*ChatRepository)(nil)

// ChatRepository stores analyst conversation turns. Sources and insights
// are kept as JSONB.
type ChatRepository struct {
	db DBTX
}

// NewChatRepository creates a new chat history repository
func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

type chatRow struct {
	ID        uuid.UUID `db:"id"`
	Role      string    `db:"role"`
	Query     string    `db:"query"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	Sources   []byte    `db:"sources"`
	Insights  []byte    `db:"insights"`
	IsError   bool      `db:"is_error"`
}

func (row chatRow) toMessage() (chat.Message, error) {
	msg := chat.Message{
		ID:        row.ID,
		Role:      chat.Role(row.Role),
		Query:     row.Query,
		Content:   row.Content,
		Timestamp: row.CreatedAt,
		Error:     row.IsError,
	}
	var sources []chat.Source
	if err := json.Unmarshal(row.Sources, &sources); err != nil {
		return msg, errors.Wrap(err, "decode sources")
	}
	var insights []insight.CorrelatedInsight
	if err := json.Unmarshal(row.Insights, &insights); err != nil {
		return msg, errors.Wrap(err, "decode insights")
	}
	if len(sources) > 0 {
		msg.Sources = sources
	}
	if len(insights) > 0 {
		msg.Insights = insights
	}
	return msg, nil
}

// Save inserts a message. Saving the same ID twice is a no-op.
func (r *ChatRepository) Save(ctx context.Context, msg *chat.Message) error {
	sources, err := jsonArray(msg.Sources)
	if err != nil {
		return errors.Wrap(err, "encode sources")
	}
	insights, err := jsonArray(msg.Insights)
	if err != nil {
		return errors.Wrap(err, "encode insights")
	}

	query := `
		INSERT INTO chat_messages (id, role, query, content, created_at, sources, insights, is_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query,
		msg.ID, string(msg.Role), msg.Query, msg.Content, msg.Timestamp, sources, insights, msg.Error,
	)
	return errors.Wrap(err, "save chat message")
}

func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var row chatRow

	query := `SELECT id, role, query, content, created_at, sources, insights, is_error FROM chat_messages WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get chat message")
	}

	msg, err := row.toMessage()
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListRecent returns the newest limit messages in chronological order
func (r *ChatRepository) ListRecent(ctx context.Context, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		return []chat.Message{}, nil
	}

	var rows []chatRow
	query := `
		SELECT * FROM (
			SELECT id, role, query, content, created_at, sources, insights, is_error
			FROM chat_messages
			ORDER BY created_at DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "list chat messages")
	}

	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		msg, err := row.toMessage()
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func jsonArray[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
