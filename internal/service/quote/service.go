package quote

import (
	"math/rand/v2"
	"sync"

	"github.com/xfnw/ircqrs/internal/model/quote"
)

// Service answers read-only questions about the quote corpus. The id list and
// participant index are computed on first use and never change afterwards,
// so handlers may share one Service freely.
type Service struct {
	store quote.Store

	corpusOnce sync.Once
	ids        []uint32
	bounds     Bounds

	indexOnce sync.Once
	index     *Index

	randMu sync.Mutex
	rng    *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand makes RandomID draw from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// NewService wraps store. Nothing is read until the first query or Warm.
func NewService(store quote.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) corpus() []uint32 {
	s.corpusOnce.Do(func() {
		s.ids = s.store.IDs()
		s.bounds = boundsOf(s.ids)
	})
	return s.ids
}

func (s *Service) participants() *Index {
	s.indexOnce.Do(func() {
		s.index = buildIndex(s.store, s.corpus())
	})
	return s.index
}

// Warm computes the id list and participant index ahead of the first request.
func (s *Service) Warm() {
	s.participants()
}

// Count returns the number of quotes in the corpus.
func (s *Service) Count() int {
	return len(s.corpus())
}

// IDs returns all quote ids in ascending order.
func (s *Service) IDs() []uint32 {
	return append([]uint32(nil), s.corpus()...)
}

// Bounds returns the first and last quote ids.
func (s *Service) Bounds() Bounds {
	s.corpus()
	return s.bounds
}

// Get returns the quote with the given id, or quote.ErrNotFound /
// quote.ErrInvalidEncoding.
func (s *Service) Get(id uint32) (quote.Quote, error) {
	return s.store.Get(id)
}

// RandomID picks an id uniformly from the corpus, or 0 when it is empty.
func (s *Service) RandomID() uint32 {
	ids := s.corpus()
	if len(ids) == 0 {
		return 0
	}
	return ids[s.intn(len(ids))]
}

func (s *Service) intn(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.IntN(n)
}

// Random returns a uniformly chosen quote.
func (s *Service) Random() (quote.Quote, error) {
	if s.Count() == 0 {
		return quote.Quote{}, quote.ErrNotFound
	}
	return s.Get(s.RandomID())
}

// Participant returns the ids of quotes naming name, empty if there are none.
func (s *Service) Participant(name string) []uint32 {
	ids := s.participants().Lookup(name)
	if ids == nil {
		return []uint32{}
	}
	return ids
}

// Participants returns every participant ordered by name.
func (s *Service) Participants() []quote.Participant {
	return s.participants().All()
}

// Navigate returns the navigation links shown alongside id.
func (s *Service) Navigate(id uint32) Navigation {
	return s.Bounds().Navigate(id)
}
