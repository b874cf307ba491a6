package feed

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xfnw/ircqrs/pkg/utils"
)

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	clientID := uuid.NewString()
	log.Printf("[feed] sse subscriber connected: %s", clientID)
	defer log.Printf("[feed] sse subscriber gone: %s", clientID)

	if err := utils.SendSSEEvent(w, flusher, "hello", Message{Type: "hello", ClientID: clientID, Timestamp: time.Now().Unix()}); err != nil {
		return
	}

	err := h.run(r.Context(), func() error {
		msg := h.nextMessage(clientID)
		return utils.SendSSEEvent(w, flusher, msg.Type, msg)
	})
	if err != nil && !errors.Is(err, r.Context().Err()) {
		log.Printf("[feed] sse write failed for %s: %v", clientID, err)
	}
}
