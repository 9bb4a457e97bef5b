package schema

import (
	"sort"
	"sync"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/serialized"
)

// Registry maps class IDs to layouts. Inline type trees take precedence over
// the static tables since they describe the exact file.
type Registry struct {
	static map[classid.ID]*Schema

	mu     sync.RWMutex
	inline map[*serialized.TypeTree]*Schema
}

// NewRegistry returns a registry holding the built-in class tables.
func NewRegistry() *Registry {
	r := &Registry{
		static: make(map[classid.ID]*Schema),
		inline: make(map[*serialized.TypeTree]*Schema),
	}
	for _, s := range builtins() {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a static layout.
func (r *Registry) Register(s *Schema) {
	s.Source = Static
	if s.Name == "" {
		s.Name = s.Class.String()
	}
	r.static[s.Class] = s
}

// Static returns the built-in layout for a class.
func (r *Registry) Static(class classid.ID) (*Schema, bool) {
	s, ok := r.static[class]
	return s, ok
}

// Classes lists the classes with a static layout, ascending.
func (r *Registry) Classes() []classid.ID {
	out := make([]classid.ID, 0, len(r.static))
	for id := range r.static {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup resolves the layout for an object of class whose type entry carries
// tree (which may be nil). ok is false when neither source knows the class.
func (r *Registry) Lookup(class classid.ID, tree *serialized.TypeTree) (*Schema, bool) {
	if tree != nil {
		if s := r.fromTree(class, tree); s != nil {
			return s, true
		}
	}
	s, ok := r.static[class]
	return s, ok
}

// fromTree converts each tree once; empty trees cache as nil.
func (r *Registry) fromTree(class classid.ID, tree *serialized.TypeTree) *Schema {
	r.mu.RLock()
	s, ok := r.inline[tree]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.inline[tree]; ok {
		return s
	}
	s = FromTypeTree(class, tree)
	r.inline[tree] = s
	return s
}
