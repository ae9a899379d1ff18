package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/candorhq/candor/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// TranscriptStreamHandler ingests live transcript frames from the external
// transcript producer. Each frame is one utterance appended to an
// in-progress session; the connection closes once the session leaves
// in-progress.
type TranscriptStreamHandler struct {
	sessions *SessionService
	upgrader websocket.Upgrader
}

func NewTranscriptStreamHandler(sessions *SessionService, allowedOrigins string) *TranscriptStreamHandler {
	return &TranscriptStreamHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, allowedOrigins)
			},
		},
	}
}

type transcriptFrame struct {
	Speaker  models.Speaker `json:"speaker"`
	Content  string         `json:"content"`
	Duration int            `json:"duration"`
}

type transcriptAck struct {
	OK      bool   `json:"ok"`
	EntryID string `json:"entry_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *TranscriptStreamHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if session.Status != models.SessionInProgress {
		http.Error(w, "Session is not in progress", http.StatusConflict)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err, "session_id", sessionID)
		return
	}
	defer conn.Close()

	slog.Info("Transcript stream opened", "session_id", sessionID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("Transcript stream read error", "error", err, "session_id", sessionID)
			}
			break
		}

		var frame transcriptFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.writeAck(conn, transcriptAck{OK: false, Error: "invalid frame"})
			continue
		}

		updated, err := h.sessions.AppendTranscript(r.Context(), sessionID, models.TranscriptEntry{
			Speaker:  frame.Speaker,
			Content:  frame.Content,
			Duration: frame.Duration,
		})
		if err != nil {
			h.writeAck(conn, transcriptAck{OK: false, Error: err.Error()})
			if IsPrecondition(err) {
				// Session left in-progress; the producer has nothing more to send.
				break
			}
			continue
		}
		if updated == nil {
			h.writeAck(conn, transcriptAck{OK: false, Error: "session not found"})
			break
		}

		h.writeAck(conn, transcriptAck{OK: true, EntryID: updated.Transcript[len(updated.Transcript)-1].ID})
	}

	slog.Info("Transcript stream closed", "session_id", sessionID)
}

func (h *TranscriptStreamHandler) writeAck(conn *websocket.Conn, ack transcriptAck) {
	if err := conn.WriteJSON(ack); err != nil {
		slog.Error("Transcript stream write error", "error", err)
	}
}

// CheckOrigin validates the origin of WebSocket connections to prevent CSRF attacks
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	// If no allowed origins are configured, deny all requests for security
	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	// Parse allowed origins (comma-separated list)
	allowedOrigins := strings.Split(allowedOriginsStr, ",")

	// Trim whitespace from origins
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	// Check if origin is in allowed list
	for _, allowed := range allowedOrigins {
		if allowed == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}
