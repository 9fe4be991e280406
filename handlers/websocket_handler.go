package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-tournaments/realtime"
	"github.com/Dosada05/club-tournaments/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub         *realtime.Hub
	tournaments services.TournamentService
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; "*" allows any
// origin.
func NewWebSocketHandler(hub *realtime.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub:         hub,
		tournaments: ts,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs streams the activity log of one tournament. Clients connect to
// /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.tournaments.GetTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	h.hub.Attach(r.Context(), conn, realtime.TournamentRoom(tournamentID))
}
