package keymutex

import "sync"

// KeyMutex provides a mutex per int64 key. It is used to serialize
// check-then-commit sequences that must not interleave for the same key
// (e.g. all booking mutations of one vehicle).
//
// Entries are reference-counted and removed once the last holder
// unlocks, so the map does not grow with the key space.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyMutex {
	return &KeyMutex{locks: make(map[int64]*entry)}
}

// Lock acquires the mutex for key, blocking until it is available.
// The returned function releases it.
func (k *KeyMutex) Lock(key int64) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
