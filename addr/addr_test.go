package addr

import (
	"bytes"
	"testing"
)

func TestPlainIPv4(t *testing.T) {
	a, err := NewIP("127.0.0.1", 0x1234)
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	if a.Port() != 0x1234 {
		t.Fatalf("Port() = %d, want %d", a.Port(), 0x1234)
	}
	if a.IP() != "127.0.0.1" {
		t.Fatalf("IP() = %q, want %q", a.IP(), "127.0.0.1")
	}

	a.SetPort(0x5678)
	if err := a.SetIP("12.34.56.78"); err != nil {
		t.Fatalf("SetIP: %v", err)
	}
	if a.Port() != 0x5678 {
		t.Fatalf("Port() = %d, want %d", a.Port(), 0x5678)
	}
	if a.IP() != "12.34.56.78" {
		t.Fatalf("IP() = %q, want %q", a.IP(), "12.34.56.78")
	}
}

func TestPlainIPv6(t *testing.T) {
	a, err := NewIPv6("::1", 0x1234)
	if err != nil {
		t.Fatalf("NewIPv6: %v", err)
	}
	if a.Port() != 0x1234 {
		t.Fatalf("Port() = %d, want %d", a.Port(), 0x1234)
	}
	if a.IP() != "::1" {
		t.Fatalf("IP() = %q, want %q", a.IP(), "::1")
	}

	longIP := "0:1234::5678:9:abcd:ef"
	a.SetPort(0x5678)
	if err := a.SetIP(longIP); err != nil {
		t.Fatalf("SetIP: %v", err)
	}
	if a.Port() != 0x5678 {
		t.Fatalf("Port() = %d, want %d", a.Port(), 0x5678)
	}
	if a.IP() != longIP {
		t.Fatalf("IP() = %q, want %q", a.IP(), longIP)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	a, err := NewIP("203.0.113.9", 9000)
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	b := NewFromBytes(a.Bytes())
	if b.Port() != a.Port() || b.IP() != a.IP() || b.Family() != a.Family() {
		t.Fatalf("round trip mismatch: got family=%v ip=%v port=%v, want family=%v ip=%v port=%v",
			b.Family(), b.IP(), b.Port(), a.Family(), a.IP(), a.Port())
	}
}

func TestSerializeTruncatesToBuffer(t *testing.T) {
	a, err := NewIP("203.0.113.9", 9000)
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	buf := make([]byte, 5)
	n := a.Serialize(buf)
	if n != 5 {
		t.Fatalf("Serialize(buf[:5]) = %d, want 5", n)
	}
	if !bytes.Equal(buf, a.Bytes()[:5]) {
		t.Fatalf("Serialize truncated = %v, want %v", buf, a.Bytes()[:5])
	}
}

func TestBytesRoundTripTruncated(t *testing.T) {
	a, err := NewIP("203.0.113.9", 9000)
	if err != nil {
		t.Fatalf("NewIP: %v", err)
	}
	// Should not panic on undersized input; the decoder copies up to the
	// fixed width and leaves the rest zeroed. Family and port live in the
	// first three bytes, so they survive a 5-byte prefix.
	b := NewFromBytes(a.Bytes()[:5])
	if b.Family() != a.Family() || b.Port() != a.Port() {
		t.Fatalf("truncated round trip: got family=%v port=%v, want family=%v port=%v",
			b.Family(), b.Port(), a.Family(), a.Port())
	}
}
