package store

import (
	"context"

	"github.com/Kedjuprecious/medibot-app/internal/models"
)

// DataStore defines the storage interface the stub server's handlers use.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, email, username, role string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Conversation operations
	CreateConversation(ctx context.Context, userID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id, userID string) (*models.Conversation, error)
	AppendMessage(ctx context.Context, conID string, msg models.Message) error
	GetMessages(ctx context.Context, conID string) ([]models.Message, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
}
