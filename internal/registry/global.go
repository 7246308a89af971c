package registry

import "sync"

var (
	globalMu sync.Mutex
	global   *Registry
)

// Instance returns the process-wide registry, creating it on first call.
func Instance() *Registry {
	return Init()
}

// Init creates the process-wide registry with opts if it does not exist yet
// and returns it. Options passed after the first initialization are ignored.
func Init(opts ...Option) *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		global = New(opts...)
	}
	return global
}

// Reset flushes and discards the process-wide registry so the next Instance
// call starts fresh. Intended for tests.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		global.Flush()
		global = nil
	}
}
