// Package sockdata implements a plain binary blob: a resizable byte buffer
// with indexed access, used to carry raw message payloads across the
// script boundary without the NUL-truncation a plain string forces.
package sockdata

import "github.com/ftplus/agssock/host"

// SockData is a resizable, indexable byte blob. The zero value is an
// empty blob.
type SockData struct {
	data []byte
}

// Dispose releases any resource the blob holds. A SockData holds none;
// the method exists so *SockData satisfies host.ManagedObject.
func (d *SockData) Dispose() {}

// BindHost gives the blob a Host to resolve cross-object references against.
// A SockData never refers to another managed object, so this is a no-op;
// the method exists so *SockData satisfies host.ManagedObject.
func (d *SockData) BindHost(host.Host) {}

// New creates a blob of the given size, every byte initialized to fill.
func New(size int, fill byte) *SockData {
	if size < 0 {
		size = 0
	}
	d := make([]byte, size)
	if fill != 0 {
		for i := range d {
			d[i] = fill
		}
	}
	return &SockData{data: d}
}

// NewEmpty creates a zero-length blob.
func NewEmpty() *SockData {
	return &SockData{}
}

// NewFromString creates a blob holding exactly the bytes of s, including
// any embedded NUL bytes — unlike a string round-tripped through a C
// string, nothing here is lost at construction time.
func NewFromString(s string) *SockData {
	return &SockData{data: []byte(s)}
}

// Size returns the blob's length in bytes.
func (d *SockData) Size() int {
	return len(d.data)
}

// SetSize resizes the blob. Growing pads with zero bytes; shrinking
// truncates from the end.
func (d *SockData) SetSize(size int) {
	if size < 0 {
		size = 0
	}
	if size <= len(d.data) {
		d.data = d.data[:size]
		return
	}
	grown := make([]byte, size)
	copy(grown, d.data)
	d.data = grown
}

// At returns the byte at index i. Precondition: 0 <= i < Size(), matching
// the original's unchecked indexing — callers are expected to check Size
// first.
func (d *SockData) At(i int) byte {
	return d.data[i]
}

// SetAt sets the byte at index i. Same precondition as At.
func (d *SockData) SetAt(i int, b byte) {
	d.data[i] = b
}

// AsString renders the blob as a string, truncated at the first NUL byte
// to match the original's c_str() conversion.
func (d *SockData) AsString() string {
	for i, c := range d.data {
		if c == 0 {
			return string(d.data[:i])
		}
	}
	return string(d.data)
}

// Clear empties the blob.
func (d *SockData) Clear() {
	d.data = nil
}

// Bytes returns the blob's raw contents. The caller must not mutate the
// returned slice.
func (d *SockData) Bytes() []byte {
	return d.data
}

// Serialize copies the blob's contents into buf verbatim, truncating to
// len(buf) if the blob is larger, and returns the number of bytes copied
// — mirroring the original's data.copy(buffer, size), which has no
// separate "tell me the size first" step.
func (d *SockData) Serialize(buf []byte) int {
	return copy(buf, d.data)
}

// Deserialize reads a blob previously written by Serialize: its entire
// input is the blob's contents, verbatim.
func Deserialize(buf []byte) *SockData {
	d := make([]byte, len(buf))
	copy(d, buf)
	return &SockData{data: d}
}
