package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xfnw/ircqrs/internal/config"
	"github.com/xfnw/ircqrs/internal/model/quote"
	quoteService "github.com/xfnw/ircqrs/internal/service/quote"
)

func newTestRouter(t *testing.T, feedEnabled bool) http.Handler {
	t.Helper()
	svc := quoteService.NewService(quote.NewMemoryStore(map[uint32]string{
		5: "<person1> hello there!\n",
		9: "<person1> hi\n* blåhaj waves \n<person2> hey\n",
	}))
	cfg := &config.Config{
		Corpus: config.CorpusConfig{PageCacheSize: 4},
		Feed:   config.FeedConfig{Enabled: feedEnabled, Interval: time.Second},
	}

	router, err := NewRouter(svc, cfg, "ircqrs")
	require.NoError(t, err)
	return router
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, false)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","quotes":2}`, resp.Body.String())
}

func TestRouterServesPagesAndAPI(t *testing.T) {
	router := newTestRouter(t, true)

	for path, want := range map[string]int{
		"/":                     http.StatusOK,
		"/9":                    http.StatusOK,
		"/7":                    http.StatusNotFound,
		"/participants":         http.StatusOK,
		"/api/quotes/5":         http.StatusOK,
		"/api/participants":     http.StatusOK,
		"/api/bounds":           http.StatusOK,
		"/definitely/not/there": http.StatusNotFound,
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, resp.Code, path)
	}
}

func TestAPICORS(t *testing.T) {
	router := newTestRouter(t, false)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/participants", nil))
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/participants", nil))
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/participants", nil))
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestFeedDisabled(t *testing.T) {
	router := newTestRouter(t, false)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/feed/sse", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
