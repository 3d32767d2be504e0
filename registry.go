package grove

import "sort"

// ChangeFunc observes a Registry write. old is nil for new keys and value is
// nil for removals.
type ChangeFunc func(key string, old, value any)

// Registry is the game-wide data store shared by every scene.
type Registry struct {
	values    map[string]any
	listeners []ChangeFunc
	frozen    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Set stores value under key and notifies listeners. Writes to a frozen
// registry are ignored.
func (r *Registry) Set(key string, value any) {
	if r.frozen {
		return
	}
	old := r.values[key]
	r.values[key] = value
	r.notify(key, old, value)
}

// Get returns the value stored under key, or nil.
func (r *Registry) Get(key string) any {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Registry) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Remove deletes key and notifies listeners if it was present.
func (r *Registry) Remove(key string) {
	if r.frozen {
		return
	}
	old, ok := r.values[key]
	if !ok {
		return
	}
	delete(r.values, key)
	r.notify(key, old, nil)
}

// Keys returns the stored keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (r *Registry) Len() int { return len(r.values) }

// Reset removes every key without notifying listeners.
func (r *Registry) Reset() {
	clear(r.values)
}

// OnChange adds a listener called after every Set and Remove.
func (r *Registry) OnChange(fn ChangeFunc) {
	r.listeners = append(r.listeners, fn)
}

// SetFrozen toggles whether writes are accepted.
func (r *Registry) SetFrozen(frozen bool) { r.frozen = frozen }

// Frozen reports whether writes are ignored.
func (r *Registry) Frozen() bool { return r.frozen }

func (r *Registry) notify(key string, old, value any) {
	for _, fn := range r.listeners {
		fn(key, old, value)
	}
}
