// Package errmap normalizes platform-native socket errors (errno on unix,
// WSA codes on Windows) into a small, stable, portable error taxonomy.
//
// The mapping is pure and total: every native code lands in exactly one of
// the thirteen Kind values below, with anything unrecognized falling to
// KindOther.
package errmap

import "fmt"

// Kind is a portable socket error classification. The numeric values are
// part of the stable host-facing surface (see host.ErrorTable) and must not
// be reordered.
type Kind int

const (
	KindNoError Kind = iota
	KindOther
	KindAccessDenied
	KindAddressNotAvailable
	KindPleaseTryAgain
	KindSocketNotValid
	KindDisconnected
	KindInvalid
	KindUnsupported
	KindHostNotReached
	KindNotEnoughResources
	KindNetworkNotAvailable
	KindNotConnected
)

var names = [...]string{
	KindNoError:             "NoError",
	KindOther:               "Other",
	KindAccessDenied:        "AccessDenied",
	KindAddressNotAvailable: "AddressNotAvailable",
	KindPleaseTryAgain:      "PleaseTryAgain",
	KindSocketNotValid:      "SocketNotValid",
	KindDisconnected:        "Disconnected",
	KindInvalid:             "Invalid",
	KindUnsupported:         "Unsupported",
	KindHostNotReached:      "HostNotReached",
	KindNotEnoughResources:  "NotEnoughResources",
	KindNetworkNotAvailable: "NetworkNotAvailable",
	KindNotConnected:        "NotConnected",
}

// String returns the stable enum name, e.g. for the host's textual error
// table.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return "Other"
	}
	return names[k]
}

// Error implements the error interface so a Kind can be returned and
// compared like any other Go error.
func (k Kind) Error() string {
	return fmt.Sprintf("sock: %s", k.String())
}

// Of classifies a native error into its portable Kind. A nil err maps to
// KindNoError. Platform classification lives in errmap_unix.go /
// errmap_windows.go.
func Of(err error) Kind {
	if err == nil {
		return KindNoError
	}
	if k, ok := err.(Kind); ok {
		return k
	}
	return of(err)
}
