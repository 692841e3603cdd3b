package cleaner

import (
	"fmt"
	"sort"
)

// Options carries everything a factory may need to build a cleaner.
// Each kind reads only the fields that apply to it.
type Options struct {
	// Root is the search root for filesystem cleaners.
	Root string

	// MinSize is the minimum byte size for threshold-based cleaners.
	MinSize int64

	// Extensions filters the large-files cleaner ("ext" or ".ext").
	Extensions []string

	// FilesOnly / DirsOnly narrow the large-files cleaner.
	FilesOnly bool
	DirsOnly  bool

	// AllImages widens the container-engine scan from dangling to all
	// unused images.
	AllImages bool

	// Volumes includes dangling volumes in the container-engine scan.
	Volumes bool

	// SafetyOverrides extends the compiled cache safety table.
	SafetyOverrides map[string]SafetyTier
}

// Factory builds a configured cleaner.
type Factory func(opts Options) (Cleaner, error)

// Registry maps a cleaner-name token to its factory. Adding a resource
// kind is one Register call; dispatch logic never changes.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under a token. Registering the same token twice
// is a programming error and panics early.
func (r *Registry) Register(token string, f Factory) {
	if _, dup := r.factories[token]; dup {
		panic("cleaner: duplicate registration for " + token)
	}
	r.factories[token] = f
}

// New builds the cleaner registered under token.
func (r *Registry) New(token string, opts Options) (Cleaner, error) {
	f, ok := r.factories[token]
	if !ok {
		return nil, fmt.Errorf("unknown cleaner %q", token)
	}
	return f(opts)
}

// Tokens returns all registered tokens in sorted order.
func (r *Registry) Tokens() []string {
	tokens := make([]string, 0, len(r.factories))
	for t := range r.factories {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}
