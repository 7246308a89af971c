package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"

	"github.com/GriffinCanCode/poseidon/internal/bag"
	"github.com/bytedance/sonic"
)

// CSV renders a header row followed by a single data row. The header is the
// requested keys, or every key minus the excluded ones. DropKeys does not
// apply to tabular output.
func CSV(src Source, opts Options) ([]byte, error) {
	header := opts.Keys
	if len(header) == 0 {
		header = slices.DeleteFunc(src.Keys(), func(k string) bool {
			return slices.Contains(opts.Exclude, k)
		})
	}

	values := src.Project(bag.ProjectionOptions{Keys: opts.Keys, Exclude: opts.Exclude}).Entries.Map()

	row := make([]string, len(header))
	for i, key := range header {
		cell, err := csvCell(values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode csv column %q: %w", key, err)
		}
		row[i] = cell
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.Write(row); err != nil {
		return nil, fmt.Errorf("failed to write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return sonic.MarshalString(val)
	}
}
