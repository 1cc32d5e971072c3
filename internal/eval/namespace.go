// Package eval implements the ceceo evaluator.
package eval

import (
	"sort"
	"sync"

	"github.com/TGMM/ceceo-llvm/internal/expr"
)

// Namespace is a thread-safe table of global definitions. It maps each
// name to its unevaluated form; later definitions overwrite earlier ones.
type Namespace struct {
	mu    sync.RWMutex
	store map[string]expr.Node
}

// NewNamespace creates a new empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		store: make(map[string]expr.Node),
	}
}

// Get retrieves the form bound to name.
func (n *Namespace) Get(name string) (expr.Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	node, ok := n.store[name]
	return node, ok
}

// Set binds name to a form.
func (n *Namespace) Set(name string, node expr.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store[name] = node
}

// Names returns the bound names in sorted order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.store))
	for k := range n.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
