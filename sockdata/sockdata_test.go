package sockdata

import "testing"

func TestFillAndIndex(t *testing.T) {
	d := New(4, 'x')
	if d.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", d.Size())
	}
	for i := 0; i < 4; i++ {
		if d.At(i) != 'x' {
			t.Fatalf("At(%d) = %q, want 'x'", i, d.At(i))
		}
	}
	d.SetAt(1, 'y')
	if d.At(1) != 'y' {
		t.Fatalf("At(1) = %q, want 'y'", d.At(1))
	}
}

func TestResize(t *testing.T) {
	d := New(2, 0)
	d.SetSize(5)
	if d.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", d.Size())
	}
	d.SetSize(1)
	if d.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", d.Size())
	}
}

func TestAsStringTruncatesAtNUL(t *testing.T) {
	d := NewFromString("abc\x00def")
	if d.Size() != 7 {
		t.Fatalf("Size() = %d, want 7", d.Size())
	}
	if got := d.AsString(); got != "abc" {
		t.Fatalf("AsString() = %q, want %q", got, "abc")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	d := NewFromString("hello")
	buf := make([]byte, 64)
	n := d.Serialize(buf)

	back := Deserialize(buf[:n])
	if back.AsString() != "hello" {
		t.Fatalf("round trip = %q, want %q", back.AsString(), "hello")
	}
}

func TestSerializeTruncatesToBuffer(t *testing.T) {
	d := NewFromString("hello")
	buf := make([]byte, 3)
	n := d.Serialize(buf)
	if n != 3 {
		t.Fatalf("Serialize(buf[:3]) = %d, want 3", n)
	}
	if string(buf) != "hel" {
		t.Fatalf("Serialize truncated to %q, want %q", buf, "hel")
	}
	if n := d.Serialize(nil); n != 0 {
		t.Fatalf("Serialize(nil) = %d, want 0", n)
	}
}

func TestClear(t *testing.T) {
	d := NewFromString("abc")
	d.Clear()
	if d.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", d.Size())
	}
}
