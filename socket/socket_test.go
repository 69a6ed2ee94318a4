//go:build unix

package socket

import (
	"testing"
	"time"

	"github.com/ftplus/agssock/addr"
	"github.com/ftplus/agssock/sockpool"
)

func newTestPool(t *testing.T) *sockpool.Pool {
	t.Helper()
	p, err := sockpool.New()
	if err != nil {
		t.Fatalf("sockpool.New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// TestUDPLoopback mirrors the original plugin's local-UDP scenario: two
// sockets, one bound and the other connected to it, a single datagram sent
// and received.
func TestUDPLoopback(t *testing.T) {
	pool := newTestPool(t)
	a, err := NewUDP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewUDP: %v", err)
	}
	defer a.Close()

	loopback, err := addr.NewIP("0.0.0.0", 0)
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	if !a.Bind(loopback) {
		t.Fatalf("Bind: %v", a.Err())
	}

	local, ok := a.Local()
	if !ok {
		t.Fatalf("Local: %v", a.Err())
	}

	b, err := NewUDP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewUDP: %v", err)
	}
	defer b.Close()

	target, err := addr.NewIP("127.0.0.1", local.Port())
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	if !b.Connect(target, false) {
		t.Fatalf("Connect: %v", b.Err())
	}

	if !b.Send("Test1234") {
		t.Fatalf("Send: %v", b.Err())
	}

	var msg string
	waitFor(t, 2*time.Second, func() bool {
		msg, ok = a.Recv()
		return ok
	})
	if msg != "Test1234" {
		t.Fatalf("Recv() = %q, want %q", msg, "Test1234")
	}
}

// TestCreateInvalidTriple mirrors the original's Socket_Create behavior on
// a nonsensical domain/type/protocol triple: the socket(2) call fails, but
// Create still returns a usable object whose Valid/Err reflect the failure
// rather than returning a nil Socket.
func TestCreateInvalidTriple(t *testing.T) {
	pool := newTestPool(t)
	s, err := Create(1, 2, 3, WithPool(pool))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s == nil {
		t.Fatal("Create returned a nil Socket")
	}
	if s.Valid() {
		t.Fatal("Valid() = true for a socket that failed to construct")
	}
	if s.Err() == nil {
		t.Fatal("Err() = nil for a socket that failed to construct")
	}

	loopback, _ := addr.NewIP("0.0.0.0", 0)
	if s.Bind(loopback) {
		t.Fatal("Bind on an invalid socket unexpectedly succeeded")
	}
}

// TestSerializeTruncatesToBuffer confirms Serialize copies verbatim into
// whatever buffer it's given rather than refusing to write on a short one.
func TestSerializeTruncatesToBuffer(t *testing.T) {
	pool := newTestPool(t)
	s, err := NewTCP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}
	defer s.Close()
	s.SetTag("hello")

	full := make([]byte, socketWireHeader+len(s.Tag()))
	want := s.Serialize(full)

	short := make([]byte, 5)
	n := s.Serialize(short)
	if n != 5 {
		t.Fatalf("Serialize(buf[:5]) = %d, want 5", n)
	}
	if want <= 5 {
		t.Fatalf("test setup: full serialization (%d) should exceed the short buffer", want)
	}
}

// TestTCPHandshake mirrors the original's local-TCP scenario: a listener,
// a client connection, bidirectional data, and graceful-close detection on
// both the connection and, afterward, the listener itself.
func TestTCPHandshake(t *testing.T) {
	pool := newTestPool(t)
	server, err := NewTCP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}

	bindAddr, _ := addr.NewIP("0.0.0.0", 0)
	if !server.Bind(bindAddr) {
		t.Fatalf("Bind: %v", server.Err())
	}
	if !server.Listen(10) {
		t.Fatalf("Listen: %v", server.Err())
	}
	local, ok := server.Local()
	if !ok {
		t.Fatalf("Local: %v", server.Err())
	}

	client, err := NewTCP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}
	servAddr, _ := addr.NewIP("127.0.0.1", local.Port())
	if !client.Connect(servAddr, false) {
		t.Fatalf("Connect: %v", client.Err())
	}

	var conn *Socket
	waitFor(t, 2*time.Second, func() bool {
		conn, ok = server.Accept()
		return ok
	})

	if !client.Send("ping") {
		t.Fatalf("client.Send: %v", client.Err())
	}
	var got string
	waitFor(t, 2*time.Second, func() bool {
		got, ok = conn.Recv()
		return ok
	})
	if got != "ping" {
		t.Fatalf("conn.Recv() = %q, want %q", got, "ping")
	}

	if !conn.Send("pong") {
		t.Fatalf("conn.Send: %v", conn.Err())
	}
	waitFor(t, 2*time.Second, func() bool {
		got, ok = client.Recv()
		return ok
	})
	if got != "pong" {
		t.Fatalf("client.Recv() = %q, want %q", got, "pong")
	}

	client.Close()

	waitFor(t, 2*time.Second, func() bool {
		got, ok = conn.Recv()
		return ok && got == "" && !conn.Valid()
	})

	server.Close()

	fresh, err := NewTCP(WithPool(pool))
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}
	defer fresh.Close()
	if fresh.Connect(servAddr, false) {
		t.Fatalf("Connect to closed server unexpectedly succeeded")
	}
}
