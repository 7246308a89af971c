package export

import (
	"bytes"
	"fmt"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/pelletier/go-toml/v2"
)

// droppedKeysTable holds the value list when keys are dropped, since a TOML
// document must be a table.
const droppedKeysTable = "values"

// TOML renders the projection as a TOML document. Table keys are sorted by the
// encoder. TOML has no null: nil table values are omitted and nil array items
// are written as empty strings.
func TOML(src Source, opts Options) ([]byte, error) {
	p := src.Project(opts.projection())

	var doc map[string]any
	if p.Dropped {
		doc = map[string]any{droppedKeysTable: toArray(p.Entries.Values())}
	} else {
		doc = toTable(p.Entries).(map[string]any)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(opts.Indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

func toTable(v any) any {
	switch val := v.(type) {
	case bag.Snapshot:
		out := make(map[string]any, len(val))
		for _, e := range val {
			if e.Value != nil {
				out[e.Key] = toTable(e.Value)
			}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if item != nil {
				out[k] = toTable(item)
			}
		}
		return out
	case []any:
		return toArray(val)
	default:
		return v
	}
}

// toArray keeps positions, so nil items become empty strings.
func toArray(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if item == nil {
			out[i] = ""
			continue
		}
		out[i] = toTable(item)
	}
	return out
}
