// Package sockpool implements the background read cycle shared by every
// pooled socket: one goroutine drains whichever registered descriptors are
// readable and hands each member a chance to consume its own data.
//
// The pool doubles as its own lock. Code that inspects or mutates state a
// pooled member shares with the drain loop (its buffer, its validity) must
// hold the pool locked first, exactly as the drain loop itself does while
// touching that same state.
package sockpool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ftplus/agssock/beacon"
	"github.com/ftplus/agssock/internal/config"
	"github.com/ftplus/agssock/internal/netlog"
	"github.com/ftplus/agssock/internal/poller"
)

// Member is a socket a Pool drains on the caller's behalf. Implementations
// own their own descriptor, buffering and validity; the pool only knows
// when to give them a turn.
type Member interface {
	// FD returns the descriptor to watch for readability.
	FD() uintptr
	// Valid reports whether the member's descriptor is still open.
	Valid() bool
	// PumpOnce is called with the pool locked when FD is ready. It should
	// perform one non-blocking read and apply its result. The return value
	// reports whether the member should stay registered; false removes it
	// from the pool (its own error/EOF state is left for the caller to
	// observe on next use, same as any other unregistered socket).
	PumpOnce() bool
}

// Pool drains pooled members on a single background goroutine.
//
// Invariant I: len(members) > 0 implies the drain goroutine is running.
// Invariant II: a member whose Valid() is false is never a pool member.
type Pool struct {
	mu      sync.Mutex
	members map[Member]struct{}
	bc      *beacon.Beacon
	pl      poller.Poller
	running int32
	stopped int32
}

// New creates an empty Pool. The background goroutine starts lazily on the
// first Add and exits on its own once the pool becomes empty.
func New() (*Pool, error) {
	bc, err := beacon.New()
	if err != nil {
		return nil, err
	}
	return &Pool{
		members: make(map[Member]struct{}),
		bc:      bc,
		pl:      poller.New(),
	}, nil
}

// Add registers sock for processing, starting the drain goroutine if this
// is the first member.
func (p *Pool) Add(m Member) {
	p.mu.Lock()
	_, already := p.members[m]
	p.members[m] = struct{}{}
	first := !already && len(p.members) == 1
	p.mu.Unlock()

	if first {
		p.start()
	} else {
		p.bc.Signal()
	}
}

// Remove unregisters a previously added member.
func (p *Pool) Remove(m Member) {
	p.mu.Lock()
	_, existed := p.members[m]
	delete(p.members, m)
	p.mu.Unlock()

	if existed {
		p.bc.Signal()
	}
}

// Clear unregisters every member.
func (p *Pool) Clear() {
	p.mu.Lock()
	p.members = make(map[Member]struct{})
	p.mu.Unlock()
	p.bc.Signal()
}

// Lock acquires the pool's guard. Hold it while touching state a
// registered member shares with the drain loop.
func (p *Pool) Lock() { p.mu.Lock() }

// Unlock releases the pool's guard.
func (p *Pool) Unlock() { p.mu.Unlock() }

// Healthy reports whether the pool is internally consistent: the drain
// goroutine is running whenever there are members, and every member is
// still valid.
func (p *Pool) Healthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.members) > 0 && atomic.LoadInt32(&p.running) == 0 {
		return false
	}
	for m := range p.members {
		if !m.Valid() {
			return false
		}
	}
	return true
}

// Close stops the drain goroutine, waiting up to config.ThreadJoinBudget
// for it to notice. Safe to call even if the pool is already idle.
func (p *Pool) Close() error {
	atomic.StoreInt32(&p.stopped, 1)
	p.bc.Signal()

	deadline := time.Now().Add(config.ThreadJoinBudget)
	for atomic.LoadInt32(&p.running) == 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return p.bc.Close()
}

func (p *Pool) start() {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return
	}
	go p.run()
}

func (p *Pool) run() {
	netlog.Printf("sockpool", "drain loop started")
	defer atomic.StoreInt32(&p.running, 0)

	signalFD := p.bc.FD()
	for {
		if atomic.LoadInt32(&p.stopped) == 1 {
			netlog.Printf("sockpool", "drain loop cancelled")
			return
		}

		p.mu.Lock()
		fds := make([]uintptr, 1, len(p.members)+1)
		fds[0] = signalFD
		for m := range p.members {
			fds = append(fds, m.FD())
		}
		p.mu.Unlock()

		ready, err := p.pl.Wait(fds, 0)
		if err != nil {
			netlog.Printf("sockpool", "wait error: %v", err)
			continue
		}

		readySet := make(map[uintptr]struct{}, len(ready))
		for _, fd := range ready {
			readySet[fd] = struct{}{}
		}

		p.mu.Lock()
		if _, ok := readySet[signalFD]; ok {
			p.bc.Reset()
			signalFD = p.bc.FD()
			netlog.Printf("sockpool", "drain loop signalled")
		}

		for m := range p.members {
			if _, ok := readySet[m.FD()]; !ok {
				continue
			}
			if !m.PumpOnce() {
				delete(p.members, m)
			}
		}

		empty := len(p.members) == 0
		p.mu.Unlock()

		if empty {
			netlog.Printf("sockpool", "drain loop finished")
			return
		}
	}
}
