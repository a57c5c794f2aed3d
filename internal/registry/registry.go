package registry

import (
	"appreg/internal/apperr"
	"appreg/internal/models"
)

// Registry is an in-memory snapshot of the registry file. It is returned by
// Store.Load and is not updated by later writes; reload after mutating.
type Registry struct {
	entries []models.Entry
	index   map[string]int
}

func newRegistry(entries []models.Entry) *Registry {
	r := &Registry{
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		r.index[e.Name] = i
	}
	return r
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the entries in file order.
func (r *Registry) Entries() []models.Entry {
	out := make([]models.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// List returns entry names in file order.
func (r *Registry) List() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry with the given name.
func (r *Registry) Lookup(name string) (models.Entry, error) {
	i, ok := r.index[name]
	if !ok {
		return models.Entry{}, apperr.NotFound(name)
	}
	return r.entries[i], nil
}

// Has reports whether an entry with name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// At returns the entry at a 0-based position.
func (r *Registry) At(i int) (models.Entry, bool) {
	if i < 0 || i >= len(r.entries) {
		return models.Entry{}, false
	}
	return r.entries[i], true
}
