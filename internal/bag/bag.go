package bag

import (
	"container/list"
	"io"
	"iter"
	"slices"

	"github.com/GriffinCanCode/poseidon/internal/shared/id"
	"go.uber.org/zap"
)

// Bag is an ordered string-keyed container. It is not safe for concurrent use.
type Bag struct {
	entries    map[string]*list.Element
	order      *list.List
	normalizer *Normalizer
	identity   string
	logger     *zap.Logger
}

// Option configures a Bag.
type Option func(*Bag)

// WithLogger sets the logger used to report teardown failures.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bag) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithData pre-populates the bag. Keys are inserted in lexical order.
func WithData(data map[string]any) Option {
	return func(b *Bag) {
		b.SetMany(data)
	}
}

// WithIdentity overrides the generated identity token.
func WithIdentity(identity string) Option {
	return func(b *Bag) {
		b.identity = identity
	}
}

// New creates an empty bag and applies opts in order.
func New(opts ...Option) *Bag {
	b := &Bag{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		normalizer: NewNormalizer(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.identity == "" {
		b.identity = id.NewBagID().String()
	}
	return b
}

// NewFromPairs creates a bag holding pairs in the given order.
func NewFromPairs(pairs ...Entry) *Bag {
	b := New()
	b.SetPairs(pairs...)
	return b
}

// Get returns the value stored under key, or nil if absent.
func (b *Bag) Get(key string) any {
	value, _ := b.Lookup(key)
	return value
}

// Lookup returns the value stored under key and whether it was present.
func (b *Bag) Lookup(key string) (any, bool) {
	el, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	return el.Value.(*Entry).Value, true
}

// GetOrFail returns the value stored under key, or ErrKeyNotFound.
func (b *Bag) GetOrFail(key string) (any, error) {
	value, ok := b.Lookup(key)
	if !ok {
		return nil, NewKeyNotFound("get", key)
	}
	return value, nil
}

// Has reports whether key is present.
func (b *Bag) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (b *Bag) Set(key string, value any) {
	if el, ok := b.entries[key]; ok {
		el.Value.(*Entry).Value = value
		return
	}
	b.entries[key] = b.order.PushBack(&Entry{Key: key, Value: value})
}

// SetMany stores every pair of data. New keys are appended in lexical order.
func (b *Bag) SetMany(data map[string]any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		b.Set(key, data[key])
	}
}

// SetPairs stores pairs in the given order.
func (b *Bag) SetPairs(pairs ...Entry) {
	for _, p := range pairs {
		b.Set(p.Key, p.Value)
	}
}

// Remove deletes key if present. A value implementing io.Closer is closed
// before the entry is dropped; close failures are logged, not returned.
func (b *Bag) Remove(key string) {
	el, ok := b.entries[key]
	if !ok {
		return
	}

	b.release(el.Value.(*Entry))
	b.order.Remove(el)
	delete(b.entries, key)
}

// Reduce removes every listed key, ignoring absent ones.
func (b *Bag) Reduce(keys ...string) {
	for _, key := range keys {
		b.Remove(key)
	}
}

// Flush removes every entry in insertion order, releasing closeable values.
func (b *Bag) Flush() {
	for el := b.order.Front(); el != nil; {
		next := el.Next()
		b.Remove(el.Value.(*Entry).Key)
		el = next
	}
}

// Exchange replaces the contents with data.
func (b *Bag) Exchange(data map[string]any) {
	b.Flush()
	b.SetMany(data)
}

// ExchangePairs replaces the contents with pairs, keeping their order.
func (b *Bag) ExchangePairs(pairs ...Entry) {
	b.Flush()
	b.SetPairs(pairs...)
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	keys := make([]string, 0, b.order.Len())
	for el := b.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry).Key)
	}
	return keys
}

// All returns a snapshot of every entry except the excluded keys.
func (b *Bag) All(excluding ...string) Snapshot {
	var skip map[string]struct{}
	if len(excluding) > 0 {
		skip = make(map[string]struct{}, len(excluding))
		for _, key := range excluding {
			skip[key] = struct{}{}
		}
	}

	snap := make(Snapshot, 0, b.order.Len())
	for el := b.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(*Entry)
		if _, ok := skip[entry.Key]; ok {
			continue
		}
		snap = append(snap, *entry)
	}
	return snap
}

// Project builds the export view described by opts.
func (b *Bag) Project(opts ProjectionOptions) Projection {
	if len(opts.Keys) == 0 {
		return Projection{Entries: b.All(opts.Exclude...)}
	}

	snap := make(Snapshot, 0, len(opts.Keys))
	for _, key := range opts.Keys {
		snap = append(snap, Entry{Key: key, Value: b.Get(key)})
	}
	return Projection{Entries: snap, Dropped: opts.DropKeys}
}

// Len returns the number of entries.
func (b *Bag) Len() int {
	return len(b.entries)
}

// Iter yields the entries present when Iter was called, in insertion order.
func (b *Bag) Iter() iter.Seq2[string, any] {
	snap := b.All()
	return func(yield func(string, any) bool) {
		for _, e := range snap {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Identity returns a token unique to this bag instance.
func (b *Bag) Identity() string {
	return b.identity
}

// Normalizer returns the bag's key normalizer.
func (b *Bag) Normalizer() *Normalizer {
	return b.normalizer
}

func (b *Bag) release(entry *Entry) {
	closer, ok := entry.Value.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		b.logger.Warn("Failed to release value",
			zap.String("bag", b.identity),
			zap.String("key", entry.Key),
			zap.Error(err))
	}
}
