// Package netlog provides the small amount of diagnostic logging the
// socket facility does on its own behalf. It never logs on the hot path of
// a send or recv; only pool lifecycle and teardown events are noted.
package netlog

import "log"

// Printf logs a message tagged with the emitting component, e.g.
// netlog.Printf("pool", "drain loop started").
func Printf(component, format string, args ...any) {
	log.Printf("["+component+"] "+format, args...)
}
