package flagstore

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrConflict     = errors.New("feature flag already exists")
	ErrNotFound     = errors.New("feature flag not found")
)

// Flag is a named boolean toggle.
type Flag struct {
	ID          ID     `json:"id"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// NewFlag carries the fields of a create request. A nil field is absent.
type NewFlag struct {
	ID          *ID     `json:"id" validate:"required"`
	Enabled     *bool   `json:"enabled" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

// Store is an in-memory, insertion-ordered collection of flags. A single
// mutex guards every read and write.
type Store struct {
	mtx   sync.RWMutex
	flags map[ID]*Flag
	order []ID
}

// New returns a store populated with seed, in order. Seed entries follow the
// same literal-key conflict rule as Create.
func New(seed []Flag) (*Store, error) {
	s := &Store{
		flags: make(map[ID]*Flag, len(seed)),
	}
	for _, f := range seed {
		if _, ok := s.flags[f.ID]; ok {
			return nil, fmt.Errorf("seed flag %q: %w", f.ID, ErrConflict)
		}
		s.insert(f)
	}
	return s, nil
}

func (s *Store) insert(f Flag) {
	s.flags[f.ID] = &f
	s.order = append(s.order, f.ID)
}

// resolve tries the text key, then the integer key. Caller must hold the lock.
func (s *Store) resolve(idText string) (*Flag, bool) {
	text, num, numeric := candidates(idText)
	if f, ok := s.flags[text]; ok {
		return f, true
	}
	if !numeric {
		return nil, false
	}
	f, ok := s.flags[num]
	return f, ok
}

// Lookup resolves an identifier received as text. The literal text key is
// tried first, then the base-10 integer key if idText parses as one.
func (s *Store) Lookup(idText string) (Flag, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	f, ok := s.resolve(idText)
	if !ok {
		return Flag{}, fmt.Errorf("lookup %q: %w", idText, ErrNotFound)
	}
	return *f, nil
}

// List returns every flag in insertion order.
func (s *Store) List() []Flag {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	out := make([]Flag, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.flags[id])
	}
	return out
}

func (s *Store) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.flags)
}

// EnabledCount returns the number of flags currently enabled.
func (s *Store) EnabledCount() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	n := 0
	for _, f := range s.flags {
		if f.Enabled {
			n++
		}
	}
	return n
}

// Create inserts a flag under its ID exactly as supplied. The conflict check
// is a literal key match: creating 1 while "1" exists succeeds.
func (s *Store) Create(nf NewFlag) (Flag, error) {
	if nf.ID == nil || nf.Enabled == nil || nf.Description == nil {
		return Flag{}, ErrMissingField
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.flags[*nf.ID]; ok {
		return Flag{}, fmt.Errorf("create %q: %w", *nf.ID, ErrConflict)
	}
	f := Flag{
		ID:          *nf.ID,
		Enabled:     *nf.Enabled,
		Description: *nf.Description,
	}
	s.insert(f)
	return f, nil
}

// Delete removes exactly one flag. Existence is confirmed the same way Lookup
// resolves ids; removal prefers the integer key when idText is numeric and that key
// is stored, and falls back to the text key otherwise.
func (s *Store) Delete(idText string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.resolve(idText); !ok {
		return fmt.Errorf("delete %q: %w", idText, ErrNotFound)
	}

	text, num, numeric := candidates(idText)
	key := text
	if _, ok := s.flags[num]; numeric && ok {
		key = num
	}
	s.remove(key)
	return nil
}

func (s *Store) remove(id ID) {
	delete(s.flags, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// SetEnabled resolves idText and sets the flag's enabled field in place.
func (s *Store) SetEnabled(idText string, enabled bool) (Flag, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	f, ok := s.resolve(idText)
	if !ok {
		return Flag{}, fmt.Errorf("set enabled %q: %w", idText, ErrNotFound)
	}
	f.Enabled = enabled
	return *f, nil
}
