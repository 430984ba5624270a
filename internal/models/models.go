package models

import "time"

// User is a provisioned account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // "patient" or "doctor"
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one stored chat message.
type Message struct {
	Sender    string    `json:"sender"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is a stored chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}
