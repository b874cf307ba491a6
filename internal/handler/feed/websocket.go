package feed

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[feed] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	log.Printf("[feed] websocket subscriber connected: %s", clientID)
	defer log.Printf("[feed] websocket subscriber gone: %s", clientID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The feed is one-way; reading only services control frames and notices
	// the peer going away.
	go h.readLoop(conn, cancel)
	go h.pingLoop(ctx, conn)

	if err := writeFrame(conn, Message{Type: "hello", ClientID: clientID, Timestamp: time.Now().Unix()}); err != nil {
		return
	}

	err = h.run(ctx, func() error {
		return writeFrame(conn, h.nextMessage(clientID))
	})
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Printf("[feed] write failed for %s: %v", clientID, err)
	}
}

func (h *Handler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[feed] read error: %v", err)
			}
			return
		}
	}
}

// pingLoop keeps the connection alive until ctx ends.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
