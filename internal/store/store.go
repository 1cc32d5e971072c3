// Package store provides persistence for ceceo definitions.
package store

// Store is the interface for definition persistence. Each definition is
// kept as the source text of its form, keyed by name.
type Store interface {
	// Get retrieves a definition's source. ok is false if not found.
	Get(name string) (source string, ok bool, err error)
	// Put stores a definition, overwriting any previous one.
	Put(name, source string) error
	// Names lists the stored names in sorted order.
	Names() ([]string, error)
	// Close releases resources.
	Close() error
}
