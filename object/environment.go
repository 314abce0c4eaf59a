package object

// Environment holds the bindings of one lexical scope.
//
// An environment does not own its outer scope: any number of child scopes
// and closures may share the same outer environment, and it stays alive as
// long as one of them does.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment creates a new, top-level environment.
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil}
}

// NewEnclosedEnvironment creates a new environment that is enclosed by an outer one.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// ChildScope returns a new environment whose outer scope is e.
func (e *Environment) ChildScope() *Environment {
	return NewEnclosedEnvironment(e)
}

// Get retrieves an object by name from the environment, checking outer scopes if necessary.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Resolve is Get with a structured failure: it returns an UNBOUND_IDENTIFIER
// *Error when no scope in the chain defines name.
func (e *Environment) Resolve(name string) (Object, error) {
	if obj, ok := e.Get(name); ok {
		return obj, nil
	}
	return nil, NewUnboundIdentifier(name)
}

// Define binds name in the current scope only, overwriting a previous local
// binding. Outer scopes are never touched.
func (e *Environment) Define(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Outer returns the enclosing environment.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// IsEmpty checks if the environment has any local bindings (excluding outer).
func (e *Environment) IsEmpty() bool {
	return len(e.store) == 0
}

// GetAll returns a copy of the bindings defined in the current scope.
func (e *Environment) GetAll() map[string]Object {
	all := make(map[string]Object, len(e.store))
	for k, v := range e.store {
		all[k] = v
	}
	return all
}
