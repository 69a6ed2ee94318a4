package host

import "github.com/ftplus/agssock/errmap"

// ErrorConstant is one entry in the textual error-value surface an
// embedder exposes to script code, e.g. as a named enum.
type ErrorConstant struct {
	Name  string
	Value int
}

// ErrorTable returns every errmap.Kind as a stable {Name, Value} pair, in
// ascending value order, for generating the enum the original plugin
// exposed as eSockNoError..eSockNotConnected.
func ErrorTable() []ErrorConstant {
	table := make([]ErrorConstant, 0, 13)
	for k := errmap.KindNoError; k <= errmap.KindNotConnected; k++ {
		table = append(table, ErrorConstant{Name: "eSock" + k.String(), Value: int(k)})
	}
	return table
}
