package quote

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("quote not found")
	ErrInvalidEncoding = errors.New("quote is not valid utf-8")
)

// Suffix is appended to a quote id to form its entry name in the corpus.
const Suffix = ".txt"

// Quote is one logged IRC exchange.
type Quote struct {
	ID   uint32 `json:"id"`
	Text string `json:"text"`
}

// Participant pairs a nick with the quotes it appears in, ascending by id.
type Participant struct {
	Name   string   `json:"name"`
	Quotes []uint32 `json:"quotes"`
}

// CorpusIntegrityError reports a corpus entry whose name is not "<id>.txt".
// It is only produced while enumerating the corpus and is not recoverable.
type CorpusIntegrityError struct {
	Entry string
	Err   error
}

func (e *CorpusIntegrityError) Error() string {
	return fmt.Sprintf("corpus entry %q is not a quote: %v", e.Entry, e.Err)
}

func (e *CorpusIntegrityError) Unwrap() error {
	return e.Err
}
