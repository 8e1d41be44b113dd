package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-portal/internal/auth"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/realtime"
)

type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

// ServeWS upgrades the request and hands the socket to the hub. The credential
// is checked after the upgrade so the client receives a websocket close frame
// with a reason instead of a bare HTTP error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	credential := auth.CredentialFromRequest(r)

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	conn, err := h.hub.Connect(r.Context(), credential, ws)
	if err != nil {
		reason := "authentication failed"
		if errors.Is(err, domain.ErrNoCredential) {
			reason = "missing credential"
		}
		deadline := time.Now().Add(time.Second)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
		_ = ws.Close()
		return
	}
	defer h.hub.Disconnect(conn)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			h.hub.HandlePing(conn)
		}
	}
}
