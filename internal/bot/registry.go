package bot

import "sync"

// Registry collects modules before the bot starts. Registration order is
// preserved so command conflicts surface deterministically.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules so callers cannot mutate
// the registry's slice.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]Module, len(r.modules))
	copy(snapshot, r.modules)
	return snapshot
}

// The process-wide registry that module packages register into from init().
var globalRegistry = NewRegistry()

// Register adds a module to the global registry. Called from module init()
// functions, triggered by blank imports in main.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns every module registered so far.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the global registry with an empty one.
// Test use only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
