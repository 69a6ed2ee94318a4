//go:build unix

package sockpool

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// udpMember is a minimal real-socket Member used to exercise the drain loop
// end to end over loopback UDP, mirroring the original's pool read-cycle
// tests.
type udpMember struct {
	fd       int
	received [][]byte
	err      error
	closed   bool
}

func newUDPLoopback(t *testing.T) (*udpMember, int) {
	t.Helper()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: 0, Addr: [4]byte{127, 0, 0, 1}}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		t.Fatalf("setnonblock: %v", err)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		t.Fatalf("getsockname: %v", err)
	}
	in4 := sa.(*unix.SockaddrInet4)
	return &udpMember{fd: fd}, in4.Port
}

func (m *udpMember) FD() uintptr { return uintptr(m.fd) }
func (m *udpMember) Valid() bool { return !m.closed }

func (m *udpMember) PumpOnce() bool {
	buf := make([]byte, 65536)
	n, _, err := unix.Recvfrom(m.fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return true
		}
		m.err = err
		return false
	}
	m.received = append(m.received, buf[:n])
	return true
}

func sendTo(t *testing.T, port int, payload []byte) int {
	t.Helper()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	defer unix.Close(fd)
	dst := &unix.SockaddrInet4{Port: port, Addr: [4]byte{127, 0, 0, 1}}
	if err := unix.Sendto(fd, payload, 0, dst); err != nil {
		t.Fatalf("sendto: %v", err)
	}
	return fd
}

func TestPoolReadCycleDeliversData(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	out, port := newUDPLoopback(t)
	defer unix.Close(out.fd)

	p.Add(out)

	payload := []byte{0x12, 0x34, 0x56, 0x78}
	sendTo(t, port, payload)

	ok := waitUntil(t, time.Second, func() bool {
		p.Lock()
		defer p.Unlock()
		return len(out.received) > 0
	})
	if !ok {
		t.Fatal("data was not delivered to the pooled member")
	}

	p.Lock()
	got := out.received[0]
	p.Unlock()
	if string(got) != string(payload) {
		t.Fatalf("received %v, want %v", got, payload)
	}
}

func TestPoolReadCycleInterruptions(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	out0, _ := newUDPLoopback(t)
	out1, port1 := newUDPLoopback(t)
	defer unix.Close(out0.fd)
	defer unix.Close(out1.fd)

	// Adding the first member starts the drain loop waiting on it alone;
	// adding the second must interrupt that wait so both get watched.
	p.Add(out0)
	p.Add(out1)

	payload := []byte{0x12, 0x34, 0x56, 0x78}
	sendTo(t, port1, payload)

	ok := waitUntil(t, time.Second, func() bool {
		p.Lock()
		defer p.Unlock()
		return len(out1.received) > 0
	})
	if !ok {
		t.Fatal("data was not delivered to the second member")
	}

	p.Lock()
	empty0 := len(out0.received) == 0
	p.Unlock()
	if !empty0 {
		t.Fatal("first member should not have received anything")
	}
}
