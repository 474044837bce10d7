// Package sync serializes work per key without a process-wide lock.
package sync

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 32

// KeyedMutex maps keys onto a fixed set of mutexes. Two keys may share a shard,
// so fn passed to Do must never call Do again.
type KeyedMutex struct {
	shards []sync.Mutex
}

// NewKeyedMutex returns a lock with n shards; n <= 0 selects the default.
func NewKeyedMutex(n int) *KeyedMutex {
	if n <= 0 {
		n = defaultShards
	}
	return &KeyedMutex{shards: make([]sync.Mutex, n)}
}

// Do runs fn while holding the shard for key.
func (m *KeyedMutex) Do(key string, fn func() error) error {
	mu := &m.shards[m.shard(key)]
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func (m *KeyedMutex) shard(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
