package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kedjuprecious/medibot-app/internal/metrics"
	"github.com/Kedjuprecious/medibot-app/internal/store"
)

// ConversationResponse represents a conversation as the client expects it:
// title derived from the first message, messages in chronological order.
type ConversationResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ListConversations handles listing all of a user's conversations with
// their messages, newest conversation first.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.Error(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	if _, err := uuid.Parse(userID); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	convs, err := h.db.ListConversationsByUser(r.Context(), userID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to retrieve conversations")
		return
	}

	out := make([]ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		resp := ConversationResponse{
			ID:        conv.ID,
			Title:     "Empty Conversation",
			Messages:  make([]MessageResponse, 0, len(conv.Messages)),
			CreatedAt: conv.CreatedAt,
		}
		for _, m := range conv.Messages {
			resp.Messages = append(resp.Messages, MessageResponse{Sender: m.Sender, Text: m.Content})
		}
		if len(resp.Messages) > 0 {
			resp.Title = resp.Messages[0].Text
		}
		out = append(out, resp)
	}

	h.JSON(w, http.StatusOK, out)
}

// DeleteConversationResponse represents the delete response.
type DeleteConversationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DeleteConversation handles deleting a conversation and its messages.
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conID := r.URL.Query().Get("conId")
	if conID == "" {
		h.Error(w, http.StatusBadRequest, "conId query parameter is required")
		return
	}
	if _, err := uuid.Parse(conID); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID")
		return
	}

	if err := h.db.DeleteConversation(r.Context(), conID); err != nil {
		if errors.Is(err, store.ErrNoRows) {
			h.Error(w, http.StatusNotFound, "conversation not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}

	metrics.ConversationsDeleted.Inc()
	h.JSON(w, http.StatusOK, DeleteConversationResponse{
		Success: true,
		Message: "conversation deleted",
	})
}
