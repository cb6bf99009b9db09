package domain

// State is the single mutable key-value container shared by reference with
// every callback across a run.
//
// It carries no synchronization: exactly one traversal executes against one
// graph at a time, so ownership is held by the currently-executing callback
// and handed off implicitly at each call boundary. Concurrent runs against
// the same State are unsupported.
type State struct {
	values map[string]any
}

// NewState creates an empty state container.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// NewStateFrom creates a state container seeded with the given values.
// The map is taken over by the container and must not be used afterwards.
func NewStateFrom(values map[string]any) *State {
	if values == nil {
		values = make(map[string]any)
	}
	return &State{values: values}
}

// Set stores a value under the given key, replacing any previous value.
func (s *State) Set(key string, value any) {
	s.values[key] = value
}

// Get returns the value stored under key, or nil if the key is absent.
func (s *State) Get(key string) any {
	return s.values[key]
}

// Lookup returns the value stored under key and whether the key exists.
func (s *State) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Delete removes the key from the state. Deleting an absent key is a no-op.
func (s *State) Delete(key string) {
	delete(s.values, key)
}

// Len returns the number of keys currently stored.
func (s *State) Len() int {
	return len(s.values)
}

// Snapshot returns a shallow copy of the state's contents, suitable for
// embedding in a run report. Mutating the copy does not affect the state.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
