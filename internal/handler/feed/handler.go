// Package feed streams randomly chosen quotes to connected clients over
// WebSocket or Server-Sent Events.
package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/xfnw/ircqrs/internal/model/quote"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
)

// QuoteSource supplies the quotes pushed to subscribers.
type QuoteSource interface {
	Random() (quote.Quote, error)
}

// Handler pushes a random quote to each subscriber every interval.
type Handler struct {
	quotes   QuoteSource
	interval time.Duration
	upgrader websocket.Upgrader
}

// New creates a feed handler.
func New(quotes QuoteSource, interval time.Duration) *Handler {
	return &Handler{
		quotes:   quotes,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the feed endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/feed/ws", h.handleWebSocket)
	r.Get("/feed/sse", h.handleSSE)
}

// Message is one frame of the feed.
type Message struct {
	Type      string       `json:"type"`
	ClientID  string       `json:"clientId,omitempty"`
	Quote     *quote.Quote `json:"quote,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

func (h *Handler) nextMessage(clientID string) Message {
	msg := Message{ClientID: clientID, Timestamp: time.Now().Unix()}
	q, err := h.quotes.Random()
	if err != nil {
		msg.Type = "error"
		msg.Error = err.Error()
		return msg
	}
	msg.Type = "quote"
	msg.Quote = &q
	return msg
}

// run calls send immediately and then on every tick until ctx ends or send fails.
func (h *Handler) run(ctx context.Context, send func() error) error {
	if err := send(); err != nil {
		return err
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := send(); err != nil {
				return err
			}
		}
	}
}
