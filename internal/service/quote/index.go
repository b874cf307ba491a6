package quote

import (
	"log"
	"slices"

	"github.com/xfnw/ircqrs/internal/analysis/participant"
	"github.com/xfnw/ircqrs/internal/model/quote"
)

// Index maps participant nicks to the quotes they appear in.
type Index struct {
	names  []string
	quotes map[string][]uint32
}

// BuildIndex runs every quote in store through the participant extractor.
// Quotes that cannot be read are logged and left out.
func BuildIndex(store quote.Store) *Index {
	return buildIndex(store, store.IDs())
}

func buildIndex(store quote.Store, ids []uint32) *Index {
	idx := &Index{quotes: make(map[string][]uint32)}

	for _, id := range ids {
		q, err := store.Get(id)
		if err != nil {
			log.Printf("[index] skipping quote %d: %v", id, err)
			continue
		}

		for _, name := range participant.Extract(q.Text) {
			list := idx.quotes[name]
			if n := len(list); n > 0 && list[n-1] == id {
				continue
			}
			idx.quotes[name] = append(list, id)
		}
	}

	idx.names = make([]string, 0, len(idx.quotes))
	for name := range idx.quotes {
		idx.names = append(idx.names, name)
	}
	slices.Sort(idx.names)
	return idx
}

// Names returns every indexed nick in lexicographic byte order.
func (idx *Index) Names() []string {
	return slices.Clone(idx.names)
}

// Len returns the number of distinct participants.
func (idx *Index) Len() int {
	return len(idx.names)
}

// Lookup returns the ascending quote ids for name, or nil if it never appears.
func (idx *Index) Lookup(name string) []uint32 {
	return slices.Clone(idx.quotes[name])
}

// All returns every participant ordered by name.
func (idx *Index) All() []quote.Participant {
	out := make([]quote.Participant, 0, len(idx.names))
	for _, name := range idx.names {
		out = append(out, quote.Participant{Name: name, Quotes: slices.Clone(idx.quotes[name])})
	}
	return out
}
