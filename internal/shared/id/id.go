// Package id provides identity tokens for in-memory containers.
//
// Tokens are prefixed ULIDs:
//   - Lexicographic sortability: creation order is visible in logs
//   - Prefixed types: bag_* and reg_* make ownership obvious when debugging
//   - Type safety: separate types prevent mixing bag and registry tokens
//
// Tokens are process-local surrogates for object identity; they are never
// persisted and carry no meaning across restarts.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// BagID identifies a bag instance
type BagID string

// RegistryID identifies a registry instance
type RegistryID string

const (
	BagPrefix      = "bag"
	RegistryPrefix = "reg"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand, made monotonic so
// tokens minted within the same millisecond still sort in creation order.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewBagID generates a new bag identity token
func NewBagID() BagID {
	return BagID(Default().GenerateWithPrefix(BagPrefix))
}

// NewRegistryID generates a new registry identity token
func NewRegistryID() RegistryID {
	return RegistryID(Default().GenerateWithPrefix(RegistryPrefix))
}

func (id BagID) String() string      { return string(id) }
func (id RegistryID) String() string { return string(id) }

// Parse parses a ULID, stripping a known prefix if present
func Parse(token string) (ulid.ULID, error) {
	if i := strings.IndexByte(token, '_'); i >= 0 {
		token = token[i+1:]
	}
	return ulid.Parse(token)
}

// Timestamp extracts the creation time from a token
func Timestamp(token string) (time.Time, error) {
	parsed, err := Parse(token)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
