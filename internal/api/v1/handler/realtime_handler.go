package handler

import (
	"net/http"

	"app/internal/realtime"
	"app/internal/util"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// RealtimeHandler upgrades sync connections. Browsers cannot set headers on
// websocket handshakes, so the JWT arrives as a query parameter instead of
// the usual Authorization header.
type RealtimeHandler struct {
	hub       *realtime.Hub
	jwtSecret string
	logger    zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub, jwtSecret string, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("handler", "RealtimeHandler").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the websocket endpoint at the given path
func (h *RealtimeHandler) RegisterRoutes(mux *http.ServeMux, path string) {
	mux.HandleFunc(path, h.serveWS)
}

// serveWS godoc
// @Summary Open a realtime sync connection
// @Description Upgrades to a websocket carrying join/leave/emit messages for workspace rooms.
// @Tags realtime
// @Param token query string true "JWT"
// @Param client_id query string true "Stable client identifier"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {string} string "Missing client_id"
// @Failure 401 {string} string "Invalid token"
// @Router /api/socket/io [get]
func (h *RealtimeHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := util.ValidateJWT(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		http.Error(w, "Missing client_id", http.StatusBadRequest)
		return
	}
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn := realtime.NewConn(clientID, claims.Subject, h.hub, ws, h.logger)
	conn.Run(r.Context())
}
