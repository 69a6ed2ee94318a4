// Package beacon provides a cross-thread wake primitive: a file descriptor
// that a background goroutine can block on waiting for readability, and
// that another goroutine can make readable on demand to interrupt the wait.
//
// It exists because the pool's drain loop blocks in a readiness-selection
// call across every pooled socket; when the set of pooled sockets changes,
// that call needs to be interrupted and restarted with the new set, and a
// wait on file descriptors has no other portable way to be woken early.
package beacon

// Beacon is a one-shot-per-cycle signal. Signal is safe to call any number
// of times before the next Reset; extra signals coalesce into one
// wakeup. Not safe for concurrent use without external synchronization
// beyond what's documented per method.
type Beacon struct {
	impl beaconImpl
}

// New creates a Beacon ready to be waited on.
func New() (*Beacon, error) {
	impl, err := newBeaconImpl()
	if err != nil {
		return nil, err
	}
	return &Beacon{impl: impl}, nil
}

// FD returns the descriptor to add to a readiness selector's read set.
// Valid until Close.
func (b *Beacon) FD() uintptr { return b.impl.fd() }

// Signal makes FD readable, waking whoever is waiting on it.
func (b *Beacon) Signal() { b.impl.signal() }

// Reset drains the pending signal so FD goes back to not-readable. Call
// this after observing FD as ready, before waiting again.
func (b *Beacon) Reset() { b.impl.reset() }

// Close releases the underlying descriptor(s). The Beacon must not be used
// afterward.
func (b *Beacon) Close() error { return b.impl.close() }

type beaconImpl interface {
	fd() uintptr
	signal()
	reset()
	close() error
}
