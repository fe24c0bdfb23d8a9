package diary

import "sync"

// Stores hands out one Store per user. All stores share the same
// backend, cache and options, but sessions, filters and the per-domain
// loading/error state stay scoped to the user they were created for,
// so one user's requests never leak into another user's responses.
type Stores struct {
	backend Backend
	opts    []StoreOption

	mu     sync.Mutex
	byUser map[string]*Store
}

func NewStores(backend Backend, opts ...StoreOption) *Stores {
	return &Stores{
		backend: backend,
		opts:    opts,
		byUser:  map[string]*Store{},
	}
}

// For returns the store holding the given user's diary state, creating
// it on first use. An empty user id gets a detached store instead of a
// registry slot; every fetch on it fails with ErrNoUserID anyway.
func (s *Stores) For(userID string) *Store {
	if userID == "" {
		return NewStore(s.backend, s.opts...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.byUser[userID]
	if !ok {
		store = NewStore(s.backend, s.opts...)
		s.byUser[userID] = store
	}
	return store
}
