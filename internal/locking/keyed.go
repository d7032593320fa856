// Package locking provides a keyed mutual-exclusion primitive: one logical
// lock per string key, created on demand and reclaimed when uncontended.
// The site service uses it to serialize content writes per site, and the
// sync bridge uses TryLock to skip a slot whose sync is already in flight.
package locking

import "sync"

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyedMutex hands out one mutex per key.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// NewKeyedMutex returns an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

func (k *KeyedMutex) acquireEntry(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) releaseEntry(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Lock blocks until the key's lock is held and returns a release func.
// Acquisition is cooperative: when done is closed before the lock is free,
// Lock gives up and returns false. Pass nil for an unbounded wait.
func (k *KeyedMutex) Lock(done <-chan struct{}, key string) (func(), bool) {
	e := k.acquireEntry(key)
	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.releaseEntry(key, e)
			})
		}, true
	case <-done:
		k.releaseEntry(key, e)
		return nil, false
	}
}

// TryLock acquires the key's lock only if it is immediately free.
func (k *KeyedMutex) TryLock(key string) (func(), bool) {
	e := k.acquireEntry(key)
	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.releaseEntry(key, e)
			})
		}, true
	default:
		k.releaseEntry(key, e)
		return nil, false
	}
}
