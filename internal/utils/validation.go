package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/poseidon/internal/bag"
)

// Request limits
const (
	MaxBodySize   = 1 * 1024 * 1024 // 1MB - maximum entry payload size
	MaxKeyLength  = 256
	MaxValueDepth = 32
)

// ValidateKey checks that a registry key is usable over HTTP.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("key must be valid UTF-8")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("key length %d exceeds maximum %d", len(key), MaxKeyLength)
	}
	return nil
}

// SplitList parses a comma-separated query value, dropping blanks.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateDepth checks that a decoded value is not nested deeper than maxDepth.
func ValidateDepth(value any, maxDepth int) error {
	return checkDepth(value, 0, maxDepth)
}

func checkDepth(value any, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("value nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := value.(type) {
	case map[string]any:
		for _, item := range v {
			if err := checkDepth(item, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := checkDepth(item, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case bag.Snapshot:
		for _, e := range v {
			if err := checkDepth(e.Value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}
