package quote

// Bounds is the smallest and largest quote id in the corpus, zero when empty.
type Bounds struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

func boundsOf(sortedIDs []uint32) Bounds {
	if len(sortedIDs) == 0 {
		return Bounds{}
	}
	return Bounds{Min: sortedIDs[0], Max: sortedIDs[len(sortedIDs)-1]}
}

// Navigation holds the link targets rendered around a quote.
type Navigation struct {
	First    uint32 `json:"first"`
	Previous uint32 `json:"previous"`
	Next     uint32 `json:"next"`
	Last     uint32 `json:"last"`
}

// Navigate steps one id back and forward from id, staying inside the bounds.
// Neighbours are not checked for existence, so a corpus with gaps can produce
// links to missing quotes.
func (b Bounds) Navigate(id uint32) Navigation {
	previous, next := id, id
	if id > b.Min {
		previous = id - 1
	}
	if id < b.Max {
		next = id + 1
	}

	return Navigation{
		First:    b.Min,
		Previous: b.clamp(previous),
		Next:     b.clamp(next),
		Last:     b.Max,
	}
}

// Contains reports whether id lies within the bounds.
func (b Bounds) Contains(id uint32) bool {
	return id >= b.Min && id <= b.Max
}

func (b Bounds) clamp(id uint32) uint32 {
	return min(max(id, b.Min), b.Max)
}
