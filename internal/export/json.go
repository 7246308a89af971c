package export

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// JSON renders the projection as an ordered object, or as an array of values
// when keys are dropped.
func JSON(src Source, opts Options) ([]byte, error) {
	data := src.Project(opts.projection()).Data()

	var (
		out []byte
		err error
	)
	if opts.Indent {
		out, err = sonic.MarshalIndent(data, "", "  ")
	} else {
		out, err = sonic.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return out, nil
}
