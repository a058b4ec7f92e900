package provider

import (
	"sort"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/common"
)

// SearchRegistry resolves search adapters by name.
type SearchRegistry struct {
	searchers map[string]Searcher
}

func NewSearchRegistry(searchers ...Searcher) *SearchRegistry {
	r := &SearchRegistry{searchers: make(map[string]Searcher, len(searchers))}
	for _, s := range searchers {
		r.searchers[strings.ToLower(s.Name())] = s
	}
	return r
}

func (r *SearchRegistry) Get(name string) (Searcher, error) {
	s, ok := r.searchers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, common.NewValidationError("5b1b0f5e-41a4-4a51-9a55-1f0d9f0d6a3e", "unknown search provider %q, available: %s", name, strings.Join(r.Names(), ", "))
	}
	return s, nil
}

func (r *SearchRegistry) Names() []string {
	names := make([]string, 0, len(r.searchers))
	for name := range r.searchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
