package intern

import "sync"

// Pool deduplicates strings behind stable uint32 handles. Scans see the same
// owner, group, and storage policy values millions of times; holding one
// backing copy per distinct value keeps the catalog compact.
type Pool struct {
	mu      sync.RWMutex
	store   map[string]uint32
	reverse []string
}

var globalPool = &Pool{
	store:   make(map[string]uint32),
	reverse: make([]string, 0, 1000),
}

const InvalidID uint32 = 0

// Get returns the unique ID for s, allocating a new one if necessary.
// IDs are 1-based so 0 stays a sentinel for the empty string.
func Get(s string) uint32 {
	if s == "" {
		return InvalidID
	}

	globalPool.mu.RLock()
	id, ok := globalPool.store[s]
	globalPool.mu.RUnlock()
	if ok {
		return id
	}

	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()

	if id, ok := globalPool.store[s]; ok {
		return id
	}

	globalPool.reverse = append(globalPool.reverse, s)
	id = uint32(len(globalPool.reverse))
	globalPool.store[s] = id
	return id
}

// GetStr returns the canonical string for the given ID.
func GetStr(id uint32) string {
	if id == InvalidID {
		return ""
	}
	globalPool.mu.RLock()
	defer globalPool.mu.RUnlock()

	idx := int(id) - 1
	if idx < 0 || idx >= len(globalPool.reverse) {
		return ""
	}
	return globalPool.reverse[idx]
}

// Canonical returns the pool's single copy of s, interning it on first use.
func Canonical(s string) string {
	return GetStr(Get(s))
}

// Len reports the number of distinct strings held.
func Len() int {
	globalPool.mu.RLock()
	defer globalPool.mu.RUnlock()
	return len(globalPool.reverse)
}

// Reset clears the global pool.
func Reset() {
	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()
	globalPool.store = make(map[string]uint32)
	globalPool.reverse = make([]string, 0, 1000)
}
