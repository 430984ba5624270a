package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kedjuprecious/medibot-app/internal/models"
)

func TestCreateUserAndLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "pat@example.com", "pat", "patient")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an assigned id")
	}

	got, err := s.GetUserByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.Role != "patient" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "pat@example.com", "pat", "patient"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateUser(ctx, "pat@example.com", "other", "patient"); err == nil {
		t.Fatal("expected duplicate email to fail")
	}
}

func TestGetUserByEmailMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetUserByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestConversationLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, "u1")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	if err := s.AppendMessage(ctx, conv.ID, models.Message{Sender: "user", Content: "hello"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if err := s.AppendMessage(ctx, conv.ID, models.Message{Sender: "assistant", Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.GetMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hello" || msgs[1].Content != "hi" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}

	if err := s.DeleteConversation(ctx, conv.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if _, err := s.GetMessages(ctx, conv.ID); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows after delete, got %v", err)
	}
	if err := s.DeleteConversation(ctx, conv.ID); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for second delete, got %v", err)
	}
}

func TestGetConversationChecksOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetConversation(ctx, conv.ID, "u1"); err != nil {
		t.Fatalf("expected owner lookup to succeed: %v", err)
	}
	if _, err := s.GetConversation(ctx, conv.ID, "u2"); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for another user, got %v", err)
	}
}

func TestListConversationsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var ticks int
	s.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Minute)
	}

	first, _ := s.CreateConversation(ctx, "u1")
	second, _ := s.CreateConversation(ctx, "u1")
	if _, err := s.CreateConversation(ctx, "u2"); err != nil {
		t.Fatal(err)
	}

	convs, err := s.ListConversationsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListConversationsByUser failed: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(convs))
	}
	if convs[0].ID != second.ID || convs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s, %s", convs[0].ID, convs[1].ID)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "u1")
	if err := s.AppendMessage(ctx, conv.ID, models.Message{Sender: "user", Content: "hello"}); err != nil {
		t.Fatal(err)
	}

	msgs, _ := s.GetMessages(ctx, conv.ID)
	msgs[0].Content = "mutated"

	again, _ := s.GetMessages(ctx, conv.ID)
	if again[0].Content != "hello" {
		t.Fatal("store state mutated through a returned snapshot")
	}
}
