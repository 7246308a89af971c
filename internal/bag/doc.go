// Package bag provides an ordered, string-keyed container for arbitrary values.
//
// A Bag remembers insertion order, hands out ordered snapshots, and resolves
// convenience names such as getUserName into operations on normalized keys.
//
// Features:
//   - Lenient (Get) and strict (GetOrFail) retrieval
//   - Convenience dispatch for get/set/has/uns/rem prefixes
//   - Cached camel-case to snake_case key normalization
//   - io.Closer values are closed exactly once when removed or flushed
//   - Projections that feed the export renderers
//
// A Bag is owned by a single goroutine. Shared access goes through the
// registry package, which adds locking.
//
// Example Usage:
//
//	b := bag.New(bag.WithData(map[string]any{"a": 1}))
//	b.Set("user_name", "ada")
//	name, _ := b.Call("getUserName")
//	view := b.Project(bag.ProjectionOptions{Keys: []string{"a", "user_name"}})
package bag
