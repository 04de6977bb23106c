package chat

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	coreChat "logistics_roi/pkg/core/chat"
	"logistics_roi/pkg/core/llm"
)

const maxMessages = 50

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "api.chat").Logger()

// Request is a conversation so far, oldest turn first.
type Request struct {
	Messages []llm.Message `json:"messages"`
}

// Handler serves the conversational ROI assistant.
type Handler struct {
	assistant *coreChat.Assistant
}

// NewHandler creates a new chat handler
func NewHandler(assistant *coreChat.Assistant) *Handler {
	return &Handler{assistant: assistant}
}

// HandleChat runs one assistant turn.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	if len(req.Messages) > maxMessages {
		writeError(w, http.StatusBadRequest, "too many messages")
		return
	}
	for _, m := range req.Messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			writeError(w, http.StatusBadRequest, "message role must be user or assistant")
			return
		}
	}

	reply, err := h.assistant.HandleTurn(r.Context(), req.Messages)
	if err != nil {
		logger.Error().Err(err).Msg("[CHAT] turn failed")
		writeError(w, http.StatusInternalServerError, "failed to process chat turn")
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		logger.Error().Err(err).Msg("[CHAT] failed to encode reply")
		writeError(w, http.StatusInternalServerError, "failed to encode reply")
		return
	}
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
