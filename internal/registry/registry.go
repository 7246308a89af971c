package registry

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/GriffinCanCode/poseidon/internal/shared/id"
	"go.uber.org/zap"
)

// Observer receives the outcome of every registry operation.
type Observer interface {
	ObserveRegistryOp(op, result string)
	SetRegistryEntries(count int)
}

const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultMiss     = "miss"
)

// Registry is a bag with uniqueness-enforcing add/remove, safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	bag      *bag.Bag
	identity string
	logger   *zap.Logger
	observer Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. The underlying bag logs through it too.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver reports operations to o, typically a metrics collector.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		identity: id.NewRegistryID().String(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("registry", r.identity))
	r.bag = bag.New(bag.WithLogger(r.logger))
	return r
}

// Add stores value under key. It fails with ErrKeyAlreadyExists if key is
// present, leaving the stored value untouched.
func (r *Registry) Add(key string, value any) error {
	return r.insert("add", key, value)
}

// Store is an alias for Add with the same duplicate policy.
func (r *Registry) Store(key string, value any) error {
	return r.insert("store", key, value)
}

func (r *Registry) insert(op, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bag.Has(key) {
		r.logger.Debug("Rejected duplicate key", zap.String("op", op), zap.String("key", key))
		r.observe(op, resultRejected)
		return bag.NewKeyAlreadyExists(op, key)
	}

	r.bag.Set(key, value)
	r.logger.Debug("Stored key", zap.String("op", op), zap.String("key", key))
	r.observe(op, resultOK)
	return nil
}

// Remove deletes key, closing the value if it implements io.Closer. It fails
// with ErrKeyNotFound if key is absent.
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.bag.Has(key) {
		r.logger.Debug("Rejected removal of missing key", zap.String("key", key))
		r.observe("remove", resultRejected)
		return bag.NewKeyNotFound("remove", key)
	}

	r.bag.Remove(key)
	r.logger.Debug("Removed key", zap.String("key", key))
	r.observe("remove", resultOK)
	return nil
}

// Fetch returns the value stored under key and whether it was present.
func (r *Registry) Fetch(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.bag.Lookup(key)
	if ok {
		r.observe("fetch", resultOK)
	} else {
		r.observe("fetch", resultMiss)
	}
	return value, ok
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (r *Registry) Get(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, err := r.bag.GetOrFail(key)
	if err != nil {
		r.observe("get", resultMiss)
		return nil, err
	}
	r.observe("get", resultOK)
	return value, nil
}

// Contains reports whether key is present.
func (r *Registry) Contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bag.Has(key)
}

// Size returns the number of entries.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bag.Len()
}

// Keys returns the registered keys in insertion order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bag.Keys()
}

// Values returns a snapshot of every entry.
func (r *Registry) Values() bag.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bag.All()
}

// Project builds an export view of the registry.
func (r *Registry) Project(opts bag.ProjectionOptions) bag.Projection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bag.Project(opts)
}

// Flush empties the registry and returns what was cleared. Closeable values
// in the result have already been closed.
func (r *Registry) Flush() bag.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleared := r.bag.All()
	r.bag.Flush()
	r.logger.Debug("Flushed registry", zap.Int("cleared", len(cleared)))
	r.observe("flush", resultOK)
	return cleared
}

// Identity returns a token unique to this registry instance.
func (r *Registry) Identity() string {
	return r.identity
}

// CreatedAt returns the creation time encoded in the registry identity.
func (r *Registry) CreatedAt() time.Time {
	ts, err := id.Timestamp(r.identity)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// SetObserver replaces the observer and reports the current entry count to it.
func (r *Registry) SetObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observer = o
	if o != nil {
		o.SetRegistryEntries(r.bag.Len())
	}
}

// observe must be called with r.mu held.
func (r *Registry) observe(op, result string) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveRegistryOp(op, result)
	r.observer.SetRegistryEntries(r.bag.Len())
}
