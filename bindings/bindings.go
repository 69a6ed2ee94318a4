// Package bindings aggregates this module's managed types behind the one
// entry point an embedding script engine needs: a shared socket pool and a
// populated method registry. It plays the same role for this module that
// facade.HioloadWS plays for its own library — a single construction point
// that wires subsystems together instead of leaving the embedder to do it.
package bindings

import (
	"github.com/ftplus/agssock/host"
	"github.com/ftplus/agssock/sockpool"
)

// Bindings is what an embedder constructs once at startup.
type Bindings struct {
	Host     host.Host
	Pool     *sockpool.Pool
	Registry *host.Registry
}

// New creates a Bindings over a fresh Pool, with Registry populated with
// every "Class::method^arity" entry point this module exposes. Call
// host.Initialize before New and host.Terminate after Close.
func New(h host.Host) (*Bindings, error) {
	pool, err := sockpool.New()
	if err != nil {
		return nil, err
	}

	b := &Bindings{
		Host:     h,
		Pool:     pool,
		Registry: host.NewRegistry(),
	}
	b.registerSocket()
	b.registerAddr()
	b.registerSockData()
	return b, nil
}

// Close stops the pool's drain goroutine. It does not dispose any
// individual managed object; the host is responsible for calling Dispose
// on whatever it still holds before this.
func (b *Bindings) Close() error {
	return b.Pool.Close()
}
