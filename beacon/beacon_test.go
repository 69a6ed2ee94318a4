//go:build unix

package beacon

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func waitReadable(t *testing.T, fd uintptr, timeout time.Duration) bool {
	t.Helper()
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	return n > 0
}

func TestSignalWakesWaiter(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	if waitReadable(t, b.FD(), 20*time.Millisecond) {
		t.Fatal("beacon readable before any signal")
	}

	b.Signal()

	if !waitReadable(t, b.FD(), time.Second) {
		t.Fatal("beacon not readable after signal")
	}
}

func TestResetClearsSignal(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	b.Signal()
	b.Signal()
	b.Reset()

	if waitReadable(t, b.FD(), 20*time.Millisecond) {
		t.Fatal("beacon still readable after reset")
	}
}
