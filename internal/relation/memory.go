package relation

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps relations in process memory.
type MemoryStore struct {
	local string

	mu        sync.Mutex
	relations map[string]map[string]Databag
}

// NewMemoryStore creates an empty store seen from the local identity.
func NewMemoryStore(local string) *MemoryStore {
	return &MemoryStore{
		local:     local,
		relations: make(map[string]map[string]Databag),
	}
}

// Create registers relation name without any databags.
// It is a no-op if the relation already exists.
func (s *MemoryStore) Create(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.relations[name]; !ok {
		s.relations[name] = make(map[string]Databag)
	}
}

// Join adds identity to relation name with the given databag, creating the
// relation if needed.
func (s *MemoryStore) Join(name, identity string, bag Databag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(name, identity, bag)
}

// Remove deletes relation name and every databag in it.
func (s *MemoryStore) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.relations, name)
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, name string) (*Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bags, ok := s.relations[name]
	if !ok {
		return nil, ErrNotFound
	}

	return New(name, s.local, bags), nil
}

// Write implements Store. The relation is created if it does not exist.
func (s *MemoryStore) Write(_ context.Context, name, identity string, bag Databag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(name, identity, bag)

	return nil
}

func (s *MemoryStore) put(name, identity string, bag Databag) {
	bags, ok := s.relations[name]
	if !ok {
		bags = make(map[string]Databag)
		s.relations[name] = bags
	}

	if bag == nil {
		bag = Databag{}
	}

	bags[identity] = maps.Clone(bag)
}
