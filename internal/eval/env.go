package eval

// Env is a lexical frame created by procedure application. A nil *Env is
// the global scope; globals live in the Namespace, not in frames.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a frame whose lookups fall back to parent.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Define binds name in this frame.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Get looks up name in this frame and its ancestors.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Depth returns the number of frames from e to the global scope.
func (e *Env) Depth() int {
	n := 0
	for env := e; env != nil; env = env.parent {
		n++
	}
	return n
}
