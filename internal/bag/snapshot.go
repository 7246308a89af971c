package bag

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value any
}

// Snapshot is an ordered copy of bag entries. Mutating the bag after the
// snapshot was taken does not affect it.
type Snapshot []Entry

// Map returns the entries as an unordered map.
func (s Snapshot) Map() map[string]any {
	m := make(map[string]any, len(s))
	for _, e := range s {
		m[e.Key] = e.Value
	}
	return m
}

// Keys returns the keys in snapshot order.
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s))
	for i, e := range s {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in snapshot order.
func (s Snapshot) Values() []any {
	values := make([]any, len(s))
	for i, e := range s {
		values[i] = e.Value
	}
	return values
}

// MarshalJSON encodes the snapshot as a JSON object that keeps entry order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := sonic.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProjectionOptions selects and reshapes entries for export.
type ProjectionOptions struct {
	// Keys restricts the projection to these keys, in this order. Missing
	// keys project as nil. Empty means every key.
	Keys []string
	// Exclude drops keys from the projection. Only honored when Keys is empty.
	Exclude []string
	// DropKeys discards keys and keeps values in requested order. Only
	// honored when Keys is non-empty.
	DropKeys bool
}

// Projection is the data shape every export renderer consumes.
type Projection struct {
	Entries Snapshot
	Dropped bool
}

// Data returns a Snapshot, or the bare values when keys were dropped.
func (p Projection) Data() any {
	if p.Dropped {
		return p.Entries.Values()
	}
	return p.Entries
}

// Header returns the column names for tabular renderers.
func (p Projection) Header() []string {
	return p.Entries.Keys()
}
