// Package config holds the tunables this module hardcodes rather than
// exposing through any script-facing surface. There is no CLI, environment
// variable, or on-disk file that changes these; they are compiled in.
package config

import "time"

// RecvChunk is the size of the scratch buffer the pool's drain loop reads
// into per ready socket, per cycle.
const RecvChunk = 65536

// DefaultCloseWindow is how long Socket.Close waits for a TCP peer to
// acknowledge a shutdown before forcing the descriptor closed. The original
// plugin's close path used a {0, 500} timeval, which is 500 microseconds
// despite reading like "half a second" at a glance; half a second is what
// was intended, so that's what this module implements.
const DefaultCloseWindow = 500 * time.Millisecond

// ThreadJoinBudget bounds how long Pool.Close waits for the drain goroutine
// to notice it should stop before giving up and returning anyway.
const ThreadJoinBudget = 2 * time.Second
