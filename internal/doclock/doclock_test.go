package doclock

import (
	"sync"
	"testing"
	"time"
)

func TestLock_SerializesSameKey(t *testing.T) {
	km := New()

	var order []int
	var mu sync.Mutex

	unlock := km.Lock("doc-1")

	done := make(chan struct{})
	go func() {
		u := km.Lock("doc-1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second locker never acquired the lock")
	}

	if order[0] != 1 || order[1] != 2 {
		t.Errorf("expected first holder to finish before second, got order %v", order)
	}
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	km := New()

	unlock := km.Lock("doc-a")
	defer unlock()

	acquired := make(chan struct{})
	go func() {
		u := km.Lock("doc-b")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key should not block")
	}
}

func TestLock_EntryCleanup(t *testing.T) {
	km := New()
	u := km.Lock("doc-x")
	u()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Errorf("expected empty lock table after release, got %d entries", len(km.locks))
	}
}
