package medibot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

const (
	// PlaceholderTitle is the title of a conversation before its first send.
	PlaceholderTitle = "New Conversation"

	// TempIDPrefix marks conversation ids that exist only on this client and
	// have not been persisted by the backend yet.
	TempIDPrefix = "local-"

	// titleMaxLen is how much of the first user message becomes the title.
	titleMaxLen = 30
)

// Message is a single chat message. Messages are immutable once created and
// ordering within a conversation is append-only.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Conversation is one chat thread with the triage assistant.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsTemporary reports whether the conversation has a client-only id that the
// backend has not confirmed.
func (c Conversation) IsTemporary() bool {
	return strings.HasPrefix(c.ID, TempIDPrefix)
}

func (c Conversation) isEmptyTemporary() bool {
	return c.IsTemporary() && len(c.Messages) == 0
}

// ChatAPI is the slice of the backend the session needs. *Client implements
// it; tests substitute a scripted fake.
type ChatAPI interface {
	SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	DeleteConversation(ctx context.Context, conID string) error
}

// ConversationCache is a local, per-user copy of the conversation list that
// survives restarts. It is never authoritative: a successful remote fetch
// always supersedes it. Load returns nil with no error when the user has no
// cached state.
type ConversationCache interface {
	Load(ctx context.Context, userID string) ([]Conversation, error)
	Save(ctx context.Context, userID string, convs []Conversation) error
	Clear(ctx context.Context, userID string) error
}

// SendResult is the outcome of a successful send.
type SendResult struct {
	// ConversationID is the backend-assigned id after reconciliation.
	ConversationID string
	// Reply is the recommendation part of the assistant reply.
	Reply string
	// Summary is the case summary part, empty unless Escalate is set. Callers
	// that stagger rendering show Reply first and Summary after a delay.
	Summary string
	// Escalate is set when the reply carries a case summary, inviting the
	// user to contact a human doctor.
	Escalate bool
}

// Session owns the conversation list and active selection for one signed-in
// user, and mediates all sends against the backend. It is not safe for
// concurrent use: all calls are expected from a single UI goroutine, and
// every mutation replaces slices rather than editing them in place so
// snapshots handed out earlier stay valid across async gaps.
type Session struct {
	api   ChatAPI
	ident IdentityProvider
	cache ConversationCache // optional

	now       func() time.Time
	newTempID func() string

	conversations []Conversation
	activeID      string
	draft         string
}

// NewSession creates a session backed by the given API and identity provider.
// cache may be nil to disable local persistence.
func NewSession(api ChatAPI, ident IdentityProvider, cache ConversationCache) *Session {
	return &Session{
		api:       api,
		ident:     ident,
		cache:     cache,
		now:       time.Now,
		newTempID: newTempID,
	}
}

// newTempID returns a fresh client-only conversation id. ULIDs are derived
// from the clock and random entropy, so ids are unique per call and sort in
// creation order.
func newTempID() string {
	return TempIDPrefix + ulid.Make().String()
}

// Conversations returns a snapshot of the conversation list, most recent
// first.
func (s *Session) Conversations() []Conversation {
	out := make([]Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// ActiveID returns the id of the active conversation, or "" when none.
func (s *Session) ActiveID() string {
	return s.activeID
}

// Active returns a copy of the active conversation.
func (s *Session) Active() (Conversation, bool) {
	i := s.indexOf(s.activeID)
	if i < 0 {
		return Conversation{}, false
	}
	return s.conversations[i], true
}

// Draft returns the pending, unsent input text.
func (s *Session) Draft() string { return s.draft }

// SetDraft stores pending input text. It is cleared when the user switches
// or creates a conversation, and when a send goes out.
func (s *Session) SetDraft(text string) { s.draft = text }

// NewConversation inserts a fresh, empty temporary conversation at the front
// of the list and makes it active. Any prior empty temporary conversation is
// replaced, so at most one ever exists.
func (s *Session) NewConversation() Conversation {
	conv := Conversation{
		ID:        s.newTempID(),
		Title:     PlaceholderTitle,
		CreatedAt: s.now(),
	}

	next := make([]Conversation, 0, len(s.conversations)+1)
	next = append(next, conv)
	for _, c := range s.conversations {
		if c.isEmptyTemporary() {
			continue
		}
		next = append(next, c)
	}
	s.conversations = next
	s.activeID = conv.ID
	s.draft = ""
	return conv
}

// Select makes the conversation with the given id active. The id must
// reference an existing conversation.
func (s *Session) Select(id string) error {
	if s.indexOf(id) < 0 {
		return fmt.Errorf("select conversation %q: %w", id, ErrNotFound)
	}
	s.activeID = id
	s.draft = ""
	return nil
}

// Load fetches the user's conversations from the backend, replacing local
// state. If the fetch fails and a cache is configured, the cached copy is
// used instead. The session always ends up with an active conversation.
func (s *Session) Load(ctx context.Context) error {
	ident, err := s.ident.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	convs, err := s.api.ListConversations(ctx, ident.ID)
	if err != nil {
		if s.cache != nil {
			if cached, cerr := s.cache.Load(ctx, ident.ID); cerr == nil && cached != nil {
				s.conversations = cached
				s.sortByCreatedAt()
				s.ensureActive()
				return nil
			}
		}
		return fmt.Errorf("load conversations: %w", err)
	}

	s.conversations = convs
	s.sortByCreatedAt()
	s.ensureActive()
	s.saveCache(ctx, ident.ID)
	return nil
}

// Send appends text as a user message to the active conversation (creating a
// temporary conversation when none is active), sends it to the backend and
// reconciles the conversation with the response. On failure the optimistic
// user message is rolled back and the error returned; the session stays
// usable for a manual retry.
func (s *Session) Send(ctx context.Context, text string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	ident, err := s.ident.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	idx := s.indexOf(s.activeID)
	if idx < 0 {
		s.NewConversation()
		idx = s.indexOf(s.activeID)
	}

	// Optimistic update: the user message shows up before the round trip.
	conv := s.conversations[idx]
	conv.Messages = appendMessage(conv.Messages, Message{Sender: SenderUser, Text: text})
	s.replace(idx, conv)
	s.sortByCreatedAt()
	s.activeID = conv.ID
	s.draft = ""

	// The backend has never seen a temporary id; sending an empty conId makes
	// it open a new conversation and return the authoritative id.
	conID := conv.ID
	if conv.IsTemporary() {
		conID = ""
	}

	resp, err := s.api.SendChat(ctx, ChatRequest{
		UserID:  ident.ID,
		Content: text,
		Sender:  SenderUser,
		ConID:   conID,
	})
	if err != nil {
		s.rollback(conv.ID)
		return nil, fmt.Errorf("send message: %w", err)
	}

	result := s.reconcile(conv.ID, text, resp)
	s.saveCache(ctx, ident.ID)
	return result, nil
}

// reconcile applies a successful send response: swap in the authoritative
// conversation id (a no-op when it already matches), set the title from the
// first user message exactly once, and append the assistant reply.
func (s *Session) reconcile(localID, userText string, resp *ChatResponse) *SendResult {
	idx := s.indexOf(localID)
	conv := s.conversations[idx]

	conv.ID = resp.ConversationID
	if conv.Title == PlaceholderTitle {
		conv.Title = truncateTitle(userText)
	}
	conv.Messages = appendMessage(conv.Messages, Message{Sender: SenderAssistant, Text: resp.AIResponse})

	s.replace(idx, conv)
	s.activeID = conv.ID

	reply, summary, escalate := SplitSummary(resp.AIResponse)
	return &SendResult{
		ConversationID: conv.ID,
		Reply:          reply,
		Summary:        summary,
		Escalate:       escalate,
	}
}

// rollback removes the optimistically appended user message after a failed
// send. A temporary conversation that becomes empty again is discarded and
// replaced, so the UI always has an active, usable conversation.
func (s *Session) rollback(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	conv := s.conversations[idx]
	if n := len(conv.Messages); n > 0 && conv.Messages[n-1].Sender == SenderUser {
		conv.Messages = conv.Messages[:n-1:n-1]
	}

	if conv.isEmptyTemporary() {
		s.remove(idx)
		s.NewConversation()
		return
	}
	s.replace(idx, conv)
}

// Delete removes a conversation. Persisted conversations are deleted on the
// backend first; local state only changes after the remote delete succeeds.
// Deleting the active conversation creates a fresh temporary one so the
// session is never left without an active conversation.
func (s *Session) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("delete conversation %q: %w", id, ErrNotFound)
	}

	if !s.conversations[idx].IsTemporary() {
		if err := s.api.DeleteConversation(ctx, id); err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}
	}

	wasActive := s.activeID == id
	s.remove(idx)
	if wasActive {
		s.NewConversation()
	}

	if ident, err := s.ident.CurrentIdentity(ctx); err == nil {
		s.saveCache(ctx, ident.ID)
	}
	return nil
}

func (s *Session) ensureActive() {
	if s.indexOf(s.activeID) >= 0 {
		return
	}
	if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
		return
	}
	s.NewConversation()
}

func (s *Session) saveCache(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	// Best effort: the cache is never authoritative.
	_ = s.cache.Save(ctx, userID, s.Conversations())
}

func (s *Session) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps in an updated conversation, copying the list so earlier
// snapshots are untouched.
func (s *Session) replace(idx int, conv Conversation) {
	next := make([]Conversation, len(s.conversations))
	copy(next, s.conversations)
	next[idx] = conv
	s.conversations = next
}

func (s *Session) remove(idx int) {
	next := make([]Conversation, 0, len(s.conversations)-1)
	next = append(next, s.conversations[:idx]...)
	next = append(next, s.conversations[idx+1:]...)
	s.conversations = next
}

// sortByCreatedAt orders the list newest first. The sort is stable, so ties
// keep their insertion order.
func (s *Session) sortByCreatedAt() {
	next := make([]Conversation, len(s.conversations))
	copy(next, s.conversations)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].CreatedAt.After(next[j].CreatedAt)
	})
	s.conversations = next
}

// appendMessage appends without sharing the backing array with the input.
func appendMessage(msgs []Message, m Message) []Message {
	next := make([]Message, len(msgs), len(msgs)+1)
	copy(next, msgs)
	return append(next, m)
}

func truncateTitle(text string) string {
	if len(text) > titleMaxLen {
		return text[:titleMaxLen]
	}
	return text
}
