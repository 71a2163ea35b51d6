package lock

import "sync"

// KeyedMutex provides mutual exclusion scoped to a string key. It is used to
// serialize read-then-write sequences against a single document, e.g. a
// client's loyalty balance or an appointment's award flag.
//
// Lock entries are reference counted and removed once the last holder
// releases them, so the map does not grow with the keyspace.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates a new KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

// Lock acquires the mutex for the given key, blocking until it is available
func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for the given key
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		m.mu.Unlock()
		panic("lock: unlock of unlocked key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()

	l.mu.Unlock()
}
