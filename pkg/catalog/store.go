package catalog

import "sync/atomic"

// Store holds the active catalog and swaps it atomically on reload. Readers
// always see a complete catalog: either the one from before a swap or the
// one after, never a mix.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a Store serving c. A nil c starts empty.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = Empty()
	}
	s := &Store{}
	s.current.Store(c)
	return s
}

// Active returns the catalog currently in effect. The returned catalog must
// not be mutated.
func (s *Store) Active() *Catalog {
	return s.current.Load()
}

// Swap installs c as the active catalog. A nil c is ignored so a failed
// reload can never blank the running configuration.
func (s *Store) Swap(c *Catalog) {
	if c == nil {
		return
	}
	s.current.Store(c)
}
