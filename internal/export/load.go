package export

import (
	"errors"
	"fmt"
	"sort"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrNotObject is returned when a loaded document is not a key/value mapping.
var ErrNotObject = errors.New("top-level document must be an object")

// Load parses a JSON, YAML or TOML document into ordered entries. JSON and
// YAML keep document order; TOML keys come back sorted.
func Load(format Format, data []byte) ([]bag.Entry, error) {
	switch format {
	case FormatJSON:
		return loadJSON(data)
	case FormatYAML:
		return loadYAML(data)
	case FormatTOML:
		return loadTOML(data)
	}
	return nil, fmt.Errorf("%w: cannot load %q", ErrUnknownFormat, string(format))
}

func loadJSON(data []byte) ([]bag.Entry, error) {
	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if root.TypeSafe() != ast.V_OBJECT {
		return nil, ErrNotObject
	}

	props, err := root.Properties()
	if err != nil {
		return nil, fmt.Errorf("failed to read json object: %w", err)
	}

	entries := make([]bag.Entry, 0)
	var pair ast.Pair
	for props.Next(&pair) {
		value, err := pair.Value.Interface()
		if err != nil {
			return nil, fmt.Errorf("failed to decode json value %q: %w", pair.Key, err)
		}
		entries = append(entries, bag.Entry{Key: pair.Key, Value: value})
	}
	return entries, nil
}

func loadYAML(data []byte) ([]bag.Entry, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	ms, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, ErrNotObject
	}
	return fromMapSlice(ms), nil
}

func fromMapSlice(ms yaml.MapSlice) bag.Snapshot {
	entries := make(bag.Snapshot, len(ms))
	for i, item := range ms {
		entries[i] = bag.Entry{Key: fmt.Sprint(item.Key), Value: fromYAMLValue(item.Value)}
	}
	return entries
}

func fromYAMLValue(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		return fromMapSlice(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromYAMLValue(item)
		}
		return out
	default:
		return v
	}
}

func loadTOML(data []byte) ([]bag.Entry, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse toml: %w", err)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]bag.Entry, len(keys))
	for i, k := range keys {
		entries[i] = bag.Entry{Key: k, Value: doc[k]}
	}
	return entries, nil
}
