// Package medibot provides a client for the Medibot cardiology triage
// backend: a thin REST client plus the conversation session manager used by
// the app's chat surface.
package medibot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the hosted Medibot backend.
const DefaultBaseURL = "https://medibot-app-yttz.onrender.com"

// Client is a Medibot API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ ChatAPI = (*Client)(nil)

// NewClient creates a new Medibot client. An empty baseURL selects the
// hosted backend.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	return respBody, nil
}

// User is an account record as provisioned on the backend.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest is the request body for account provisioning.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateUserResponse is the response from account provisioning.
type CreateUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateUser provisions a backend account after sign-up with the auth
// provider.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	if req.Role == "" {
		req.Role = "patient"
	}

	body, _ := json.Marshal(req)
	respBody, err := c.doRequest(ctx, http.MethodPost, "/user", body)
	if err != nil {
		return nil, err
	}

	var resp CreateUserResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUserByEmail looks up an account by email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/user?email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChatRequest is the request body for sending a chat message. ConID is the
// persisted conversation id, or empty to open a new conversation.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
	ConID   string `json:"conId"`
}

// ChatResponse is the response from sending a chat message.
type ChatResponse struct {
	ConversationID string `json:"conversationId"`
	AIResponse     string `json:"aiResponse"`
	Message        string `json:"message"`
}

// SendChat sends a user message and returns the assistant reply together
// with the authoritative conversation id.
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Sender == "" {
		req.Sender = SenderUser
	}

	body, _ := json.Marshal(req)
	respBody, err := c.doRequest(ctx, http.MethodPost, "/chat", body)
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListConversations retrieves all of a user's conversations with their
// messages, newest conversation first.
func (c *Client) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/conversations?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var convs []Conversation
	if err := json.Unmarshal(respBody, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// GetMessages retrieves the messages of one conversation.
func (c *Client) GetMessages(ctx context.Context, conID string) ([]Message, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/chat/messages?conId="+url.QueryEscape(conID), nil)
	if err != nil {
		return nil, err
	}

	var msgs []Message
	if err := json.Unmarshal(respBody, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteConversation deletes a persisted conversation.
func (c *Client) DeleteConversation(ctx context.Context, conID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/conversation?conId="+url.QueryEscape(conID), nil)
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", conID, err)
	}
	return nil
}
