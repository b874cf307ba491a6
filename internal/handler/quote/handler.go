package quote

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xfnw/ircqrs/internal/analysis/participant"
	"github.com/xfnw/ircqrs/internal/model/quote"
	quoteService "github.com/xfnw/ircqrs/internal/service/quote"
	"github.com/xfnw/ircqrs/pkg/utils"
)

// Handler serves the quote and participant pages.
type Handler struct {
	quotes  *quoteService.Service
	pages   *renderer
	cache   *lru.Cache[uint32, []byte]
	binPath string
}

// New creates a Handler caching up to cacheSize rendered quote pages.
func New(quotes *quoteService.Service, cacheSize int, binPath string) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[uint32, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Handler{
		quotes:  quotes,
		pages:   pages,
		cache:   cache,
		binPath: binPath,
	}, nil
}

// RegisterRoutes registers the HTML pages and static assets.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/random", h.handleRandom)
	r.Get("/participants", h.handleParticipants)
	r.Get("/participants/", h.handleParticipant)
	r.Get("/participants/{name}", h.handleParticipant)
	r.Get("/style.css", h.serveAsset("style.css"))
	r.Get("/robots.txt", h.serveAsset("robots.txt"))
	r.Get("/{id}", h.handleQuote)
}

// RegisterAPIRoutes registers the JSON endpoints.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/bounds", h.handleAPIBounds)
	r.Get("/quotes/random", h.handleAPIRandom)
	r.Get("/quotes/{id}", h.handleAPIQuote)
	r.Get("/participants", h.handleAPIParticipants)
	r.Get("/participants/", h.handleAPIParticipant)
	r.Get("/participants/{name}", h.handleAPIParticipant)
}

// NotFound renders the generic 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound, "404 not found", "the requested page does not exist", nil)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "index", page{
		Title: "ircqrs",
		Data: struct {
			Count        int
			Participants int
			BinPath      string
		}{h.quotes.Count(), len(h.quotes.Participants()), h.binPath},
	})
}

func (h *Handler) handleRandom(w http.ResponseWriter, r *http.Request) {
	if h.quotes.Count() == 0 {
		h.renderError(w, http.StatusNotFound, "404 not found", "there are no quotes yet", nil)
		return
	}
	http.Redirect(w, r, "/"+strconv.FormatUint(uint64(h.quotes.RandomID()), 10), http.StatusTemporaryRedirect)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, http.StatusNotFound, "404 not found", "the requested quote does not exist", h.boundsNavigation())
		return
	}

	if body, ok := h.cache.Get(id); ok {
		writeHTML(w, http.StatusOK, body)
		return
	}

	q, err := h.quotes.Get(id)
	switch {
	case errors.Is(err, quote.ErrNotFound):
		nav := h.quoteNavigation(id)
		h.renderError(w, http.StatusNotFound, "404 not found", "the requested quote does not exist", nav)
		return
	case errors.Is(err, quote.ErrInvalidEncoding):
		log.Printf("[quote] %v", err)
		h.renderError(w, http.StatusInternalServerError, "500 internal server error",
			fmt.Sprintf("there was an error converting quote %d to utf8", id), nil)
		return
	case err != nil:
		log.Printf("[quote] failed to load quote %d: %v", id, err)
		h.renderError(w, http.StatusInternalServerError, "500 internal server error", "the quote could not be loaded", nil)
		return
	}

	body, err := h.pages.render("quote", page{
		Title: fmt.Sprintf("quote #%d", id),
		Data: struct {
			Nav          quoteService.Navigation
			Text         string
			Participants []string
		}{h.quotes.Navigate(id), q.Text, uniqueNames(participant.Extract(q.Text))},
	})
	if err != nil {
		log.Printf("[quote] %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.cache.Add(id, body)
	writeHTML(w, http.StatusOK, body)
}

func (h *Handler) handleParticipants(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "participants", page{
		Title: "participants",
		Data:  h.quotes.Participants(),
	})
}

func (h *Handler) handleParticipant(w http.ResponseWriter, r *http.Request) {
	name := participantParam(r)
	ids := h.quotes.Participant(name)
	if len(ids) == 0 {
		h.renderError(w, http.StatusNotFound, "404 not found", "nobody by that name appears in any quote", nil)
		return
	}

	h.renderPage(w, http.StatusOK, "participant", page{
		Title: name,
		Data:  quote.Participant{Name: name, Quotes: ids},
	})
}

func (h *Handler) serveAsset(name string) http.HandlerFunc {
	fsys := assets()
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, fsys, name)
	}
}

func (h *Handler) handleAPIBounds(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"bounds": h.quotes.Bounds(),
		"count":  h.quotes.Count(),
	})
}

func (h *Handler) handleAPIRandom(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotes.Random()
	if err != nil {
		respondQuoteError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, q)
}

func (h *Handler) handleAPIQuote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "quote not found")
		return
	}

	q, err := h.quotes.Get(id)
	if err != nil {
		respondQuoteError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"quote":        q,
		"navigation":   h.quotes.Navigate(id),
		"participants": uniqueNames(participant.Extract(q.Text)),
	})
}

func (h *Handler) handleAPIParticipants(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.quotes.Participants())
}

func (h *Handler) handleAPIParticipant(w http.ResponseWriter, r *http.Request) {
	name := participantParam(r)
	utils.RespondJSON(w, http.StatusOK, quote.Participant{Name: name, Quotes: h.quotes.Participant(name)})
}

func respondQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "quote not found")
	case errors.Is(err, quote.ErrInvalidEncoding):
		utils.RespondError(w, http.StatusInternalServerError, "quote is not valid utf-8")
	default:
		log.Printf("[quote] %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load quote")
	}
}

// quoteNavigation is nil for an empty corpus, where there is nowhere to go.
func (h *Handler) quoteNavigation(id uint32) *quoteService.Navigation {
	if h.quotes.Count() == 0 {
		return nil
	}
	nav := h.quotes.Navigate(id)
	return &nav
}

func (h *Handler) boundsNavigation() *quoteService.Navigation {
	if h.quotes.Count() == 0 {
		return nil
	}
	b := h.quotes.Bounds()
	return &quoteService.Navigation{First: b.Min, Previous: b.Min, Next: b.Max, Last: b.Max}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, p page) {
	body, err := h.pages.render(name, p)
	if err != nil {
		log.Printf("[quote] %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, body)
}

func (h *Handler) renderError(w http.ResponseWriter, status int, title, message string, nav *quoteService.Navigation) {
	h.renderPage(w, status, "error", page{
		Title: title,
		Data: struct {
			Message string
			Nav     *quoteService.Navigation
		}{message, nav},
	})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("[quote] failed to write response: %v", err)
	}
}

func parseID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(id), nil
}

// participantParam returns the decoded {name} segment, "" on /participants/.
// chi routes on RawPath when the request has one (names containing '/'), and
// only then is the segment still escaped.
func participantParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
