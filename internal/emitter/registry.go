package emitter

import "sort"

// Registry maps target language identifiers to emitters.
// Build one per invocation and pass it to the generator.
type Registry map[string]Emitter

// NewRegistry returns a registry holding the given emitters.
func NewRegistry(emitters ...Emitter) Registry {
	r := make(Registry, len(emitters))
	for _, e := range emitters {
		r[e.Language()] = e
	}
	return r
}

// DefaultRegistry returns a new registry with the TypeScript, Go and Python emitters.
func DefaultRegistry() Registry {
	return NewRegistry(TypeScript{}, Go{}, Python{})
}

// Lookup returns the emitter for language.
func (r Registry) Lookup(language string) (Emitter, bool) {
	e, ok := r[language]
	return e, ok
}

// Languages returns the registered language identifiers, sorted.
func (r Registry) Languages() []string {
	langs := make([]string, 0, len(r))
	for l := range r {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
