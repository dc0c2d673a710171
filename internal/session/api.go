package session

import (
	"castle/internal/session/message"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RegisterHandlers configura as rotas HTTP de sessões.
func RegisterHandlers(mux *http.ServeMux, rooms Rooms, logger *zap.Logger) {
	mux.HandleFunc("/api/sessions", handleCreateSession(rooms, logger.Named("api")))
}

// handleCreateSession lida com POST /api/sessions.
func handleCreateSession(rooms Rooms, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		room, err := rooms.Create(ctx)
		if err != nil {
			logger.Error("[API] failed to create session", zap.Error(err))
			writeJSONError(w, http.StatusServiceUnavailable, "Failed to create session")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(message.SessionCreatedPayload{SessionID: room.ID})
	}
}

func writeJSONError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": text})
}
