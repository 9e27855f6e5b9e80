package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nsarda/cashlens/internal/domain"
)

// ChatHandler serves the interactive Q&A session over a WebSocket.
// Each connection carries its own transcript, so follow-up questions
// stay scoped to the conversation that asked them.
type ChatHandler struct {
	engine   Analytics
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(engine Analytics, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST surface is open to any origin; the socket follows.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer     string                    `json:"answer"`
	Transcript []domain.ConversationTurn `json:"transcript"`
}

// Serve handles GET /ws/chat
func (h *ChatHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}
	defer conn.Close()

	h.log.Info().Str("remote_addr", r.RemoteAddr).Msg("Chat session opened")

	var transcript []domain.ConversationTurn

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Chat session closed unexpectedly")
			}
			return
		}

		if req.Question == "" {
			if err := conn.WriteJSON(map[string]string{"error": "question is required"}); err != nil {
				return
			}
			continue
		}

		var answer string
		answer, transcript = h.engine.Ask(r.Context(), req.Question, transcript)

		if err := conn.WriteJSON(chatResponse{
			Answer:     answer,
			Transcript: transcript,
		}); err != nil {
			h.log.Warn().Err(err).Msg("Failed to write chat response")
			return
		}
	}
}
