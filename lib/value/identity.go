package value

import "sync/atomic"

// storageIDs hands out process unique identities for shared container storages.
var storageIDs atomic.Uint64

// nextStorageID returns a new storage identity.
//
// Thread-safety: This function is thread-safe since it uses atomic operations.
func nextStorageID() uint64 {
	return storageIDs.Add(1)
}

// Shared is implemented by every value kind whose payload is a shared, mutable
// storage. Two handles alias the same storage iff their StorageID is equal.
type Shared interface {
	Value
	// StorageID returns the identity of the underlying storage (not of the handle).
	StorageID() uint64
}
