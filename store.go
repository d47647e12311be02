package ctxlog

import "sync"

// Store holds the key/value mapping of one logical execution context.
// Each goroutine that logs should own its own Store, obtained from
// Inject or, for a child goroutine, from Spawn/Child; after creation,
// mutations never cross between a parent and its children.
//
// The mutex only guards against accidental sharing of one Store across
// goroutines; isolation between execution contexts comes from the
// snapshot-copy taken at spawn time, not from locking.
type Store struct {
	// mu protects concurrent access to the mapping.
	mu sync.Mutex
	// kv is the current mapping. It is never nil.
	kv Fields
}

// NewStore returns an empty store for a fresh logical execution context.
func NewStore() *Store {
	return &Store{
		kv: Fields{},
	}
}

// Snapshot returns an independent copy of the current mapping.
// It never fails; an empty store yields an empty non-nil map.
func (s *Store) Snapshot() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.clone()
}

// Merge overwrites the current mapping key by key with updates.
// Keys absent from updates are untouched. If any value is not an
// accepted scalar, Merge returns an error naming every offending key
// and applies nothing.
func (s *Store) Merge(updates Fields) error {
	if err := updates.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(updates)

	return nil
}

// Clear removes the named keys, or every key if none are given.
// Keys not present are silently ignored.
func (s *Store) Clear(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keys) == 0 {
		s.kv = Fields{}
		return
	}

	for _, key := range keys {
		delete(s.kv, key)
	}
}

// Child returns a new store initialized with a snapshot-copy of the
// current mapping, for handing to a spawned goroutine. Mutations made
// through either store after the call never affect the other.
func (s *Store) Child() *Store {
	return &Store{
		kv: s.Snapshot(),
	}
}

// Begin activates a temporary context scope: the prior value (or
// absence) of every key in updates is recorded, then updates are merged.
// Recording and merging happen atomically with respect to other store
// operations. The returned scope restores the prior state on Exit.
func (s *Store) Begin(updates Fields) (*Scope, error) {
	if err := updates.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delta := make([]priorEntry, 0, len(updates))

	for key := range updates {
		prior, present := s.kv[key]
		delta = append(delta, priorEntry{
			key:     key,
			value:   prior,
			present: present,
		})
	}

	s.apply(updates)

	return &Scope{
		store: s,
		delta: delta,
	}, nil
}

// apply writes updates into the mapping. Callers must hold mu and must
// have validated updates already.
func (s *Store) apply(updates Fields) {
	if s.kv == nil {
		s.kv = Fields{}
	}

	for key, value := range updates {
		s.kv[key] = value
	}
}

// restore undoes one scope delta. Callers must hold mu.
func (s *Store) restore(delta []priorEntry) {
	if s.kv == nil {
		// The store was wiped out from under the scope; recreate the
		// mapping so restoration stays a no-op rather than a panic.
		s.kv = Fields{}
	}

	for _, entry := range delta {
		if entry.present {
			s.kv[entry.key] = entry.value
			continue
		}

		delete(s.kv, entry.key)
	}
}
