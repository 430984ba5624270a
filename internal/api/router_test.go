package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Kedjuprecious/medibot-app/internal/store"
	"github.com/Kedjuprecious/medibot-app/medibot"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := store.NewMemoryStore()
	srv := httptest.NewServer(NewRouter(zerolog.Nop(), db))
	t.Cleanup(srv.Close)
	return srv
}

// TestTriageFlow walks the full client-visible contract: provision an
// account, chat until escalation, list, and delete.
func TestTriageFlow(t *testing.T) {
	srv := newTestServer(t)
	client := medibot.NewClient(srv.URL)
	ctx := context.Background()

	// Provision and look up the account.
	created, err := client.CreateUser(ctx, medibot.CreateUserRequest{
		Email:    "pat@example.com",
		Username: "pat",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !created.Success {
		t.Fatalf("unexpected create response: %+v", created)
	}

	user, err := client.GetUserByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.Role != "patient" {
		t.Fatalf("expected default patient role, got %q", user.Role)
	}

	// First message opens a conversation.
	first, err := client.SendChat(ctx, medibot.ChatRequest{
		UserID:  user.ID,
		Content: "I have chest pain",
	})
	if err != nil {
		t.Fatalf("SendChat failed: %v", err)
	}
	if first.ConversationID == "" {
		t.Fatal("expected a conversation id")
	}
	if medibot.HasSummary(first.AIResponse) {
		t.Fatalf("first reply should be a follow-up question: %q", first.AIResponse)
	}

	// Later messages reuse it.
	second, err := client.SendChat(ctx, medibot.ChatRequest{
		UserID:  user.ID,
		Content: "Two days, worse on exertion",
		ConID:   first.ConversationID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("expected same conversation, got %q", second.ConversationID)
	}

	third, err := client.SendChat(ctx, medibot.ChatRequest{
		UserID:  user.ID,
		Content: "Also short of breath",
		ConID:   first.ConversationID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !medibot.HasSummary(third.AIResponse) {
		t.Fatalf("expected the third reply to escalate with a summary: %q", third.AIResponse)
	}

	// Message history, oldest first.
	msgs, err := client.GetMessages(ctx, first.ConversationID)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 6 {
		t.Fatalf("expected 6 messages after 3 exchanges, got %d", len(msgs))
	}
	if msgs[0].Text != "I have chest pain" || msgs[0].Sender != medibot.SenderUser {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}

	// Conversation list carries a title derived from the first message.
	convs, err := client.ListConversations(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(convs))
	}
	if convs[0].Title != "I have chest pain" {
		t.Fatalf("unexpected title: %q", convs[0].Title)
	}

	// Delete, then verify it is gone.
	if err := client.DeleteConversation(ctx, first.ConversationID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	convs, err = client.ListConversations(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 0 {
		t.Fatalf("expected no conversations after delete, got %d", len(convs))
	}
}

// TestSessionAgainstStubServer runs the session manager against the real
// router end to end.
func TestSessionAgainstStubServer(t *testing.T) {
	srv := newTestServer(t)
	client := medibot.NewClient(srv.URL)
	ctx := context.Background()

	if _, err := client.CreateUser(ctx, medibot.CreateUserRequest{Email: "pat@example.com", Username: "pat"}); err != nil {
		t.Fatal(err)
	}
	user, err := client.GetUserByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatal(err)
	}

	session := medibot.NewSession(client, medibot.StaticIdentity{ID: user.ID, Email: user.Email}, nil)
	if err := session.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var result *medibot.SendResult
	for _, text := range []string{"I have chest pain", "Two days", "Also dizzy"} {
		result, err = session.Send(ctx, text)
		if err != nil {
			t.Fatalf("Send(%q) failed: %v", text, err)
		}
	}
	if !result.Escalate {
		t.Fatal("expected escalation after three exchanges")
	}

	conv, ok := session.Active()
	if !ok {
		t.Fatal("expected an active conversation")
	}
	if conv.IsTemporary() {
		t.Fatalf("expected a persisted id, got %q", conv.ID)
	}
	if len(conv.Messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(conv.Messages))
	}
	if conv.Title != "I have chest pain" {
		t.Fatalf("unexpected title: %q", conv.Title)
	}

	// A second session for the same user sees the persisted conversation.
	other := medibot.NewSession(client, medibot.StaticIdentity{ID: user.ID}, nil)
	if err := other.Load(ctx); err != nil {
		t.Fatal(err)
	}
	convs := other.Conversations()
	if len(convs) != 1 || convs[0].ID != conv.ID {
		t.Fatalf("expected the persisted conversation, got %+v", convs)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad email", http.MethodPost, "/user", `{"email":"not-an-email","username":"x"}`, http.StatusBadRequest},
		{"bad role", http.MethodPost, "/user", `{"email":"a@b.com","username":"x","role":"admin"}`, http.StatusBadRequest},
		{"missing email query", http.MethodGet, "/user", "", http.StatusBadRequest},
		{"unknown user", http.MethodGet, "/user?email=nobody@example.com", "", http.StatusNotFound},
		{"bad user id", http.MethodPost, "/chat", `{"userId":"not-a-uuid","content":"hi"}`, http.StatusBadRequest},
		{"missing content", http.MethodPost, "/chat", `{"userId":"4f3edf5c-dbad-44b1-9b40-05ae70e09b8c"}`, http.StatusBadRequest},
		{"bad con id", http.MethodGet, "/chat/messages?conId=nope", "", http.StatusBadRequest},
		{"unknown conversation", http.MethodDelete, "/conversation?conId=4f3edf5c-dbad-44b1-9b40-05ae70e09b8c", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+tc.path, bytes.NewReader([]byte(tc.body)))
			if err != nil {
				t.Fatal(err)
			}
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestSecurityHeadersAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected healthy, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
}

func TestRejectsNonJSONContentType(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/user", "text/plain", bytes.NewReader([]byte("hello")))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}
}
