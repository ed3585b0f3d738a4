package doclock

import "sync"

// KeyedMutex serializes ingestion per document identity. Concurrent
// uploads of different documents proceed in parallel; two writers for
// the same document id queue behind each other, so re-indexing never
// interleaves partial writes.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock blocks until the lock for id is held and returns the unlock
// function. Callers must release on every exit path, normally via defer.
func (k *KeyedMutex) Lock(id string) func() {
	k.mu.Lock()
	e, ok := k.locks[id]
	if !ok {
		e = &entry{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
