// Package keymutex provides a mutex per string key. Each room gets its own
// serialization boundary so unrelated rooms never contend.
package keymutex

import (
	"sync"
)

// KeyMutex hands out one mutex per key on demand. Mutexes are retained for
// the life of the process; keys are short room codes so the map stays small.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given key, creating it on first use.
func (k *KeyMutex) Lock(key string) {
	k.mutexFor(key).Lock()
}

// Unlock releases the mutex for the given key.
func (k *KeyMutex) Unlock(key string) {
	k.mutexFor(key).Unlock()
}

func (k *KeyMutex) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
