package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Registry groups loaded prompts under the six fixed categories.
// Every prompt belongs to exactly one category; a duplicate slug is
// rejected with a warning so the invariant holds.
type Registry struct {
	mu       sync.RWMutex
	prompts  map[string]*Prompt            // slug -> prompt
	byCat    map[Category][]*Prompt        // category -> ordered prompts
	warnings []Warning
}

// NewRegistry creates an empty registry with all six categories present.
func NewRegistry() *Registry {
	byCat := make(map[Category][]*Prompt, len(Categories))
	for _, c := range Categories {
		byCat[c] = nil
	}
	return &Registry{
		prompts: make(map[string]*Prompt),
		byCat:   byCat,
	}
}

// Register adds a prompt to the registry. A prompt whose slug is already
// taken is skipped and recorded as a warning, never an error.
func (r *Registry) Register(p *Prompt) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.prompts[p.ID]; ok {
		r.warnings = append(r.warnings, Warning{
			Path:    p.Path,
			Message: fmt.Sprintf("duplicate prompt id %q (already defined by %s), skipped", p.ID, existing.Path),
		})
		return
	}

	r.prompts[p.ID] = p
	r.byCat[p.Category] = append(r.byCat[p.Category], p)
}

// Get retrieves a prompt by its slug.
func (r *Registry) Get(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	return p, nil
}

// Has reports whether a prompt with the given slug exists.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.prompts[id]
	return ok
}

// Len returns the number of registered prompts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// IDs returns all prompt slugs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByCategory returns the prompts in a category, sorted by slug.
// Every category yields a (possibly empty) list.
func (r *Registry) ByCategory(c Category) []*Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompts := make([]*Prompt, len(r.byCat[c]))
	copy(prompts, r.byCat[c])
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].ID < prompts[j].ID })
	return prompts
}

// All returns every prompt in canonical order: category order, then slug.
func (r *Registry) All() []*Prompt {
	var all []*Prompt
	for _, c := range Categories {
		all = append(all, r.ByCategory(c)...)
	}
	return all
}

// Warnings returns the warnings collected while registering prompts.
func (r *Registry) Warnings() []Warning {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}
