// Package doctor provides diagnostic output for debugging clod.
package doctor

import "io"

// Section represents a diagnostic section that can be printed.
type Section interface {
	// Name returns the section title (e.g. "Bubblewrap").
	Name() string

	// Print writes the section's diagnostics to w.
	Print(w io.Writer) error
}

// Registry holds all registered doctor sections in print order.
type Registry struct {
	sections []Section
}

// NewRegistry creates an empty section registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns all registered sections.
func (r *Registry) Sections() []Section {
	return r.sections
}
