package texture

import (
	"castlight/internal/world"
	"sync/atomic"
)

// Set is an immutable view of the store taken at one instant. A frame reads
// textures only through the Set it took at its start.
type Set struct {
	textures map[world.MaterialID]*Texture
}

// Get returns the texture for id, if loaded.
func (s Set) Get(id world.MaterialID) (*Texture, bool) {
	tex, ok := s.textures[id]
	return tex, ok
}

// Len returns the number of loaded textures.
func (s Set) Len() int {
	return len(s.textures)
}

// Store holds textures keyed by material id. Writers publish copy-on-write
// replacements, so readers never lock and never observe a partial update.
type Store struct {
	current atomic.Pointer[map[world.MaterialID]*Texture]
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	empty := make(map[world.MaterialID]*Texture)
	s.current.Store(&empty)
	return s
}

// Publish makes tex visible under id for every snapshot taken afterwards.
func (s *Store) Publish(id world.MaterialID, tex *Texture) {
	if tex == nil {
		return
	}
	for {
		old := s.current.Load()
		next := make(map[world.MaterialID]*Texture, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[id] = tex
		if s.current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Snapshot returns the textures currently published.
func (s *Store) Snapshot() Set {
	return Set{textures: *s.current.Load()}
}

// SetOf builds a Set directly from a map, for callers that do not need a Store.
func SetOf(textures map[world.MaterialID]*Texture) Set {
	copied := make(map[world.MaterialID]*Texture, len(textures))
	for k, v := range textures {
		copied[k] = v
	}
	return Set{textures: copied}
}
