package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Conversation is the dialog capability the chat endpoint exposes.
type Conversation interface {
	Handle(ctx context.Context, userID, message string) (string, error)
}

// ChatHandlers exposes the HTTP surface of the assistant.
type ChatHandlers struct {
	logger *slog.Logger
	dialog Conversation
}

// NewChatHandlers constructs a ChatHandlers instance.
func NewChatHandlers(logger *slog.Logger, dialog Conversation) *ChatHandlers {
	return &ChatHandlers{
		logger: logger,
		dialog: dialog,
	}
}

func (h *ChatHandlers) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload chatRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.dialog.Handle(r.Context(), payload.UserID, payload.Message)
	if err != nil {
		// The dialog layer only surfaces errors when a data provider is
		// unreachable; a partial or empty answer would be misleading.
		h.logger.Error("chat request failed", "error", err, "userId", payload.UserID)
		writeError(w, http.StatusServiceUnavailable, "the assistant is temporarily unavailable, please try again shortly")
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{Response: reply})
}

// --- Request & Response DTOs ---

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
