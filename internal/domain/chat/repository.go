package chat

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for chat history persistence
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// ListRecent returns up to limit messages, oldest first
	ListRecent(ctx context.Context, limit int) ([]Message, error)
}
