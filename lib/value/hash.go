package value

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// hashSeed is generated once per process. Hashes are only meaningful within
// the process that computed them and are never persisted.
var hashSeed = generateSeed()

// generateSeed creates a random seed for the value hash functions
func generateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// FNV-1a constants
const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// hashString generates a hash value for a string with the process seed.
// This function uses the FNV-1a hash algorithm, which is fast and has good distribution
func hashString(s string) uint64 {
	hash := uint64(offset64) ^ hashSeed
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}
	return hash
}

// hashKey hashes a hashable value by its key
func hashKey(k Key) uint64 {
	return hashString(string(rune('A'+int(k.kind))) + k.repr)
}

// combineOrdered folds h into acc. The result depends on the order of the calls.
func combineOrdered(acc, h uint64) uint64 {
	acc ^= h
	acc *= prime64
	return acc
}

// mix scrambles a 64 bit value (splitmix64 finalizer)
func mix(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// entryHash hashes one key/value pair. Summing entry hashes gives an
// order-independent hash for map-like containers.
func entryHash(k, v uint64) uint64 {
	return mix(k ^ mix(v+prime64))
}
