/*
Package registry provides a process-wide key/value store built on a bag.

Unlike a plain bag, a registry refuses to overwrite: Add and Store fail with
bag.ErrKeyAlreadyExists when the key is present, and Remove fails with
bag.ErrKeyNotFound when it is absent. Every operation is guarded by one lock.

The global instance is created lazily by Instance or Init; Reset discards it
so tests start from an empty registry. A Seeder can populate a registry from
JSON, YAML or TOML documents on disk.

Example Usage:

	reg := registry.Instance()
	if err := reg.Add("db", pool); err != nil {
		// key already registered
	}
	pool, ok := reg.Fetch("db")
*/
package registry
