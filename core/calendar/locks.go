package calendar

import "sync"

// keyedMutex serializes operations that share a key. The index performs
// read-then-write sequences against buckets; two concurrent assigns for
// the same entity would otherwise race and leave it in two buckets.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

func (km *keyedMutex) lock(key string) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &refLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()
}

func (km *keyedMutex) unlock(key string) {
	km.mu.Lock()
	l := km.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	l.mu.Unlock()
}
