package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kedjuprecious/medibot-app/internal/models"
)

// ErrNoRows is returned when a lookup matches nothing.
var ErrNoRows = fmt.Errorf("store: no rows")

// MemoryStore is an in-memory DataStore for the stub server. State is lost
// on restart, which is the point: the stub exists for development and tests.
type MemoryStore struct {
	mu            sync.Mutex
	usersByEmail  map[string]*models.User
	conversations map[string]*models.Conversation
	now           func() time.Time
}

var _ DataStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByEmail:  make(map[string]*models.User),
		conversations: make(map[string]*models.Conversation),
		now:           time.Now,
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// CreateUser stores a new account. Emails are unique.
func (s *MemoryStore) CreateUser(ctx context.Context, email, username, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, fmt.Errorf("store: user %s already exists", email)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		Role:      role,
		CreatedAt: s.now(),
	}
	s.usersByEmail[email] = user
	return cloneUser(user), nil
}

// GetUserByEmail looks up an account by email.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByEmail[email]
	if !ok {
		return nil, ErrNoRows
	}
	return cloneUser(user), nil
}

// CreateConversation opens a new empty conversation for a user.
func (s *MemoryStore) CreateConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &models.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	s.conversations[conv.ID] = conv
	return cloneConversation(conv), nil
}

// GetConversation retrieves a conversation owned by the given user.
func (s *MemoryStore) GetConversation(ctx context.Context, id, userID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, ErrNoRows
	}
	return cloneConversation(conv), nil
}

// AppendMessage appends a message to a conversation.
func (s *MemoryStore) AppendMessage(ctx context.Context, conID string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conID]
	if !ok {
		return ErrNoRows
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

// GetMessages returns a conversation's messages, oldest first.
func (s *MemoryStore) GetMessages(ctx context.Context, conID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conID]
	if !ok {
		return nil, ErrNoRows
	}
	out := make([]models.Message, len(conv.Messages))
	copy(out, conv.Messages)
	return out, nil
}

// ListConversationsByUser returns a user's conversations, newest first.
func (s *MemoryStore) ListConversationsByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Conversation
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			out = append(out, *cloneConversation(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *MemoryStore) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNoRows
	}
	delete(s.conversations, id)
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneConversation(conv *models.Conversation) *models.Conversation {
	c := *conv
	c.Messages = make([]models.Message, len(conv.Messages))
	copy(c.Messages, conv.Messages)
	return &c
}
