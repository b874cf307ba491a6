package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusNotFound, "quote not found")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"quote not found"}`, resp.Body.String())
}

func TestSendSSEEvent(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)

	require.NoError(t, SendSSEEvent(resp, resp, "quote", map[string]int{"id": 5}))
	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, "event: quote\ndata: {\"id\":5}\n\n", resp.Body.String())
	assert.True(t, resp.Flushed)
}

func TestSendSSEEventMarshalError(t *testing.T) {
	resp := httptest.NewRecorder()
	assert.Error(t, SendSSEEvent(resp, resp, "bad", make(chan int)))
	assert.Empty(t, resp.Body.String())
}
