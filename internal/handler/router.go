package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xfnw/ircqrs/internal/config"
	"github.com/xfnw/ircqrs/internal/handler/feed"
	"github.com/xfnw/ircqrs/internal/handler/quote"
	middlewarePkg "github.com/xfnw/ircqrs/internal/middleware"
	quoteService "github.com/xfnw/ircqrs/internal/service/quote"
	"github.com/xfnw/ircqrs/pkg/utils"
)

// NewRouter wires HTTP routes to the quote service.
func NewRouter(quotes *quoteService.Service, cfg *config.Config, binPath string) (http.Handler, error) {
	quoteHandler, err := quote.New(quotes, cfg.Corpus.PageCacheSize, binPath)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"quotes": quotes.Count(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewarePkg.CORS)

		quoteHandler.RegisterAPIRoutes(api)

		if cfg.Feed.Enabled {
			feed.New(quotes, cfg.Feed.Interval).RegisterRoutes(api)
		}
	})

	quoteHandler.RegisterRoutes(r)
	r.NotFound(quoteHandler.NotFound)

	return r, nil
}
