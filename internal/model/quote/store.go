package quote

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Store exposes the quote corpus to the service layer.
type Store interface {
	// IDs returns every quote id in ascending order.
	IDs() []uint32
	Get(id uint32) (Quote, error)
}

// FSStore serves quotes from a flat directory of "<id>.txt" files.
type FSStore struct {
	fsys fs.FS
	ids  []uint32
}

// NewFSStore enumerates fsys eagerly so that a malformed corpus is reported
// before anything is served.
func NewFSStore(fsys fs.FS) (*FSStore, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	ids := make([]uint32, 0, len(entries))
	for _, entry := range entries {
		id, err := parseEntryName(entry)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return &FSStore{fsys: fsys, ids: ids}, nil
}

func parseEntryName(entry fs.DirEntry) (uint32, error) {
	name := entry.Name()
	if entry.IsDir() {
		return 0, &CorpusIntegrityError{Entry: name, Err: errors.New("unexpected directory")}
	}

	stem, ok := strings.CutSuffix(name, Suffix)
	if !ok {
		return 0, &CorpusIntegrityError{Entry: name, Err: fmt.Errorf("missing %s suffix", Suffix)}
	}

	id, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, &CorpusIntegrityError{Entry: name, Err: err}
	}
	// Get reads EntryName(id), so "007.txt" would be listed but unreadable.
	if canonical := EntryName(uint32(id)); canonical != name {
		return 0, &CorpusIntegrityError{Entry: name, Err: fmt.Errorf("non-canonical name, want %s", canonical)}
	}
	return uint32(id), nil
}

// IDs returns a copy of the sorted id list.
func (s *FSStore) IDs() []uint32 {
	return slices.Clone(s.ids)
}

// Get reads a single quote by id.
func (s *FSStore) Get(id uint32) (Quote, error) {
	if _, found := slices.BinarySearch(s.ids, id); !found {
		return Quote{}, ErrNotFound
	}

	data, err := fs.ReadFile(s.fsys, EntryName(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Quote{}, ErrNotFound
		}
		return Quote{}, fmt.Errorf("read quote %d: %w", id, err)
	}
	return decode(id, data)
}

// EntryName returns the corpus file name holding the quote with the given id.
func EntryName(id uint32) string {
	return strconv.FormatUint(uint64(id), 10) + Suffix
}

func decode(id uint32, data []byte) (Quote, error) {
	if !utf8.Valid(data) {
		return Quote{}, fmt.Errorf("quote %d: %w", id, ErrInvalidEncoding)
	}
	return Quote{ID: id, Text: string(data)}, nil
}

// MemoryStore implements Store over an in-memory map, suitable for tests and tooling.
type MemoryStore struct {
	items map[uint32][]byte
	ids   []uint32
}

// NewMemoryStore returns a MemoryStore holding a copy of items.
func NewMemoryStore(items map[uint32]string) *MemoryStore {
	s := &MemoryStore{items: make(map[uint32][]byte, len(items))}
	for id, text := range items {
		s.items[id] = []byte(text)
		s.ids = append(s.ids, id)
	}
	slices.Sort(s.ids)
	return s
}

// NewMemoryStoreBytes is NewMemoryStore for raw, possibly invalid, quote bodies.
func NewMemoryStoreBytes(items map[uint32][]byte) *MemoryStore {
	s := &MemoryStore{items: make(map[uint32][]byte, len(items))}
	for id, data := range items {
		s.items[id] = slices.Clone(data)
		s.ids = append(s.ids, id)
	}
	slices.Sort(s.ids)
	return s
}

// IDs returns the sorted id list.
func (s *MemoryStore) IDs() []uint32 {
	return slices.Clone(s.ids)
}

// Get looks up a quote by id.
func (s *MemoryStore) Get(id uint32) (Quote, error) {
	data, ok := s.items[id]
	if !ok {
		return Quote{}, ErrNotFound
	}
	return decode(id, data)
}
