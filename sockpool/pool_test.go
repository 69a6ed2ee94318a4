package sockpool

import (
	"sync/atomic"
	"testing"
	"time"
)

// fakeMember never becomes FD-ready on its own; it's only used to exercise
// Add/Remove/Clear/Healthy bookkeeping, not the drain loop itself.
type fakeMember struct {
	fd     uintptr
	valid  int32
	pumped int32
}

func newFakeMember(fd uintptr) *fakeMember {
	return &fakeMember{fd: fd, valid: 1}
}

func (m *fakeMember) FD() uintptr   { return m.fd }
func (m *fakeMember) Valid() bool   { return atomic.LoadInt32(&m.valid) == 1 }
func (m *fakeMember) PumpOnce() bool {
	atomic.AddInt32(&m.pumped, 1)
	return true
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestPoolShutsDownWhenEmpty(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	m := newFakeMember(0)
	p.Add(m)
	if !p.Healthy() {
		t.Fatal("pool should be healthy right after Add")
	}

	p.Remove(m)

	if !waitUntil(t, time.Second, func() bool {
		return atomic.LoadInt32(&p.running) == 0
	}) {
		t.Fatal("drain goroutine did not shut down after last member removed")
	}
}

func TestPoolClear(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	p.Add(newFakeMember(0))
	p.Add(newFakeMember(0))
	p.Clear()

	if !waitUntil(t, time.Second, func() bool {
		return atomic.LoadInt32(&p.running) == 0
	}) {
		t.Fatal("drain goroutine did not shut down after Clear")
	}
}
