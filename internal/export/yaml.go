package export

import (
	"fmt"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/goccy/go-yaml"
)

// YAML renders the projection as an ordered mapping, or a sequence when keys
// are dropped. Without Indent the document is emitted in flow style.
func YAML(src Source, opts Options) ([]byte, error) {
	p := src.Project(opts.projection())

	var doc any
	if p.Dropped {
		values := p.Entries.Values()
		for i, v := range values {
			values[i] = toMapSlice(v)
		}
		doc = values
	} else {
		doc = toMapSlice(p.Entries)
	}

	encOpts := []yaml.EncodeOption{yaml.Indent(2)}
	if !opts.Indent {
		encOpts = append(encOpts, yaml.Flow(true))
	}

	out, err := yaml.MarshalWithOptions(doc, encOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return out, nil
}

// toMapSlice converts snapshots, including nested ones, into ordered YAML
// mappings.
func toMapSlice(v any) any {
	switch val := v.(type) {
	case bag.Snapshot:
		ms := make(yaml.MapSlice, len(val))
		for i, e := range val {
			ms[i] = yaml.MapItem{Key: e.Key, Value: toMapSlice(e.Value)}
		}
		return ms
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toMapSlice(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toMapSlice(item)
		}
		return out
	default:
		return v
	}
}
