package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Kedjuprecious/medibot-app/internal/metrics"
	"github.com/Kedjuprecious/medibot-app/internal/models"
	"github.com/Kedjuprecious/medibot-app/internal/store"
	"github.com/Kedjuprecious/medibot-app/medibot"
)

// ChatRequest represents the send-message request body. ConID is empty when
// the client wants a new conversation.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
	ConID   string `json:"conId"`
}

// ChatResponse represents the send-message response.
type ChatResponse struct {
	ConversationID string `json:"conversationId"`
	AIResponse     string `json:"aiResponse"`
	Message        string `json:"message"`
}

// Chat handles a user message: resolve or create the conversation, store the
// user message, generate the assistant reply, store it, and return both the
// reply and the authoritative conversation id.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := uuid.Parse(req.UserID); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid user ID")
		return
	}
	if req.Content == "" {
		h.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Sender == "" {
		req.Sender = "user"
	}

	ctx := r.Context()

	var conID string
	if req.ConID != "" {
		if _, err := uuid.Parse(req.ConID); err != nil {
			h.Error(w, http.StatusBadRequest, "invalid conversation ID")
			return
		}
		// An unknown id falls through to a new conversation, matching the
		// backend this stub stands in for.
		if _, err := h.db.GetConversation(ctx, req.ConID, req.UserID); err != nil {
			if !errors.Is(err, store.ErrNoRows) {
				h.Error(w, http.StatusInternalServerError, "database error")
				return
			}
		} else {
			conID = req.ConID
		}
	}

	if conID == "" {
		conv, err := h.db.CreateConversation(ctx, req.UserID)
		if err != nil {
			h.Error(w, http.StatusInternalServerError, "failed to create conversation")
			return
		}
		conID = conv.ID
	}

	if err := h.db.AppendMessage(ctx, conID, models.Message{Sender: req.Sender, Content: req.Content}); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create message")
		return
	}
	metrics.MessagesStored.WithLabelValues(req.Sender).Inc()

	messages, err := h.db.GetMessages(ctx, conID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to get conversation messages")
		return
	}

	reply := TriageReply(messages)
	if medibot.HasSummary(reply) {
		metrics.SummariesGenerated.Inc()
	}

	if err := h.db.AppendMessage(ctx, conID, models.Message{Sender: "assistant", Content: reply}); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to save AI response")
		return
	}
	metrics.MessagesStored.WithLabelValues("assistant").Inc()

	h.JSON(w, http.StatusOK, ChatResponse{
		ConversationID: conID,
		AIResponse:     reply,
		Message:        "Message processed successfully",
	})
}

// MessageResponse represents one message as the client expects it.
type MessageResponse struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// GetMessages handles listing the messages of one conversation.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conID := r.URL.Query().Get("conId")
	if conID == "" {
		h.Error(w, http.StatusBadRequest, "conId query parameter is required")
		return
	}
	if _, err := uuid.Parse(conID); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	messages, err := h.db.GetMessages(r.Context(), conID)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			h.Error(w, http.StatusNotFound, "conversation not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to get conversation messages")
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{Sender: m.Sender, Text: m.Content})
	}
	h.JSON(w, http.StatusOK, out)
}
