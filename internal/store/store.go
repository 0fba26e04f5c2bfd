// Package store provides a keyed in-memory collection shared by the
// domain services. Each entity kind gets its own Store instance; the
// store is safe for concurrent request handling.
package store

import "sync"

// NotFoundError reports a lookup for an id that is not in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return "resource not found"
}

// IsNotFound reports whether err is a store miss.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// Store is a mutex-guarded keyed collection. Entities are returned in
// insertion order from List. Ids are assigned on Create and are never
// reused after a delete within the same process lifetime.
type Store[T any] struct {
	mu     sync.RWMutex
	items  map[int]T
	order  []int
	nextID int
}

func New[T any]() *Store[T] {
	return &Store[T]{
		items:  make(map[int]T),
		nextID: 1,
	}
}

// Create assigns the next id, builds the value from it and stores the
// result. Because the build happens under the lock, no other caller
// can ever observe the value without its id.
func (s *Store[T]) Create(build func(id int) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	v := build(id)
	s.items[id] = v
	s.order = append(s.order, id)
	return v
}

// Get returns the value stored under id.
func (s *Store[T]) Get(id int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{ID: id}
	}
	return v, nil
}

// List returns all values in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Update applies mutate to the value stored under id and stores the
// result. The whole read-modify-write happens under the lock so the
// mutation appears atomic to other requests.
func (s *Store[T]) Update(id int, mutate func(T) T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{ID: id}
	}
	v = mutate(v)
	s.items[id] = v
	return v, nil
}

// Delete removes and returns the value stored under id.
func (s *Store[T]) Delete(id int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{ID: id}
	}
	delete(s.items, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return v, nil
}

// Len returns the number of stored values.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
