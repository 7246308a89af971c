package bag

import (
	"strings"
	"sync/atomic"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
)

// NormalizerStats reports cache effectiveness.
type NormalizerStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Normalizer converts camel-case identifiers to snake_case and memoizes the
// result per raw input. Entries never expire.
type Normalizer struct {
	cache  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewNormalizer creates a normalizer with an empty cache.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		// no expiration and no janitor goroutine
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Normalize returns the snake_case form of name.
func (n *Normalizer) Normalize(name string) string {
	if cached, ok := n.cache.Get(name); ok {
		n.hits.Add(1)
		return cached.(string)
	}

	n.misses.Add(1)
	result := ToSnake(name)
	n.cache.Set(name, result, gocache.NoExpiration)
	return result
}

// Stats returns hit/miss counters and the number of cached identifiers.
func (n *Normalizer) Stats() NormalizerStats {
	return NormalizerStats{
		Hits:    n.hits.Load(),
		Misses:  n.misses.Load(),
		Entries: n.cache.ItemCount(),
	}
}

// ToSnake converts a camel-case identifier to lower snake_case without caching.
//
// A separator goes before an upper-case rune that follows a lower-case rune or
// a digit, and before the last upper-case rune of an acronym that is followed
// by a lower-case rune: UserID -> user_id, HTMLParser -> html_parser.
func ToSnake(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteByte('_')
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
