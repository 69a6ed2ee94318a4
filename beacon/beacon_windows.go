//go:build windows

package beacon

import (
	"errors"
	"sync"

	"golang.org/x/sys/windows"
)

// windowsBeacon signals by closing its socket: a descriptor that's being
// waited on by WSAPoll/select becomes ready (with an error) the instant it
// is closed. Since a closed socket can't be reused, reset recreates it.
type windowsBeacon struct {
	mu   sync.Mutex
	sock windows.Handle
}

func newBeaconImpl() (beaconImpl, error) {
	b := &windowsBeacon{}
	if err := b.openLocked(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *windowsBeacon) openLocked() error {
	s, err := windows.Socket(windows.AF_INET, windows.SOCK_DGRAM, windows.IPPROTO_UDP)
	if err != nil {
		return err
	}

	bindAddr := &windows.SockaddrInet4{Port: 0, Addr: [4]byte{127, 0, 0, 1}}
	if err := windows.Bind(s, bindAddr); err != nil {
		windows.Closesocket(s)
		return err
	}

	sa, err := windows.Getsockname(s)
	if err != nil {
		windows.Closesocket(s)
		return err
	}
	in4, ok := sa.(*windows.SockaddrInet4)
	if !ok {
		windows.Closesocket(s)
		return errors.New("beacon: unexpected local address family")
	}

	connectAddr := &windows.SockaddrInet4{Port: in4.Port, Addr: [4]byte{127, 0, 0, 1}}
	if err := windows.Connect(s, connectAddr); err != nil {
		windows.Closesocket(s)
		return err
	}

	b.sock = s
	return nil
}

func (b *windowsBeacon) fd() uintptr {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uintptr(b.sock)
}

func (b *windowsBeacon) signal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	windows.Closesocket(b.sock)
}

func (b *windowsBeacon) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	// The previous socket was closed by signal; a fresh one takes its
	// place so the next wait cycle has something valid to watch.
	_ = b.openLocked()
}

func (b *windowsBeacon) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return windows.Closesocket(b.sock)
}
