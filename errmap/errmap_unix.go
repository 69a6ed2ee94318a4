//go:build unix

package errmap

import (
	"errors"
	"syscall"
)

// of classifies a unix errno into a portable Kind. The clusters mirror
// original_source/src/API.cpp's AGSEnumerateError table exactly.
//
// EAGAIN and EWOULDBLOCK share the same numeric value on some platforms
// (Linux) but not others (several BSDs), so errno is compared inside the
// boolean conditions of a tagless switch rather than listed as case values
// of a switch on errno, avoiding a "duplicate case" compile error on the
// platforms where they collide.
func of(err error) Kind {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return KindOther
	}

	switch {
	case errno == 0:
		return KindNoError
	case errno == syscall.EACCES || errno == syscall.EPERM:
		return KindAccessDenied
	case errno == syscall.EADDRINUSE || errno == syscall.EADDRNOTAVAIL || errno == syscall.EAFNOSUPPORT:
		return KindAddressNotAvailable
	case errno == syscall.EAGAIN || errno == syscall.EWOULDBLOCK || errno == syscall.EALREADY || errno == syscall.EINPROGRESS || errno == syscall.EINTR:
		return KindPleaseTryAgain
	case errno == syscall.EBADF || errno == syscall.ENOTSOCK:
		return KindSocketNotValid
	case errno == syscall.ECONNABORTED || errno == syscall.ECONNREFUSED || errno == syscall.ECONNRESET || errno == syscall.ENETRESET:
		return KindDisconnected
	case errno == syscall.EDESTADDRREQ || errno == syscall.EINVAL || errno == syscall.EPROTOTYPE || errno == syscall.EFAULT || errno == syscall.EISCONN:
		return KindInvalid
	case errno == syscall.EOPNOTSUPP || errno == syscall.EPROTO || errno == syscall.EPROTONOSUPPORT || errno == syscall.ESOCKTNOSUPPORT:
		return KindUnsupported
	case errno == syscall.EHOSTUNREACH:
		return KindHostNotReached
	case errno == syscall.EMFILE || errno == syscall.ENFILE || errno == syscall.ENOBUFS || errno == syscall.ENOMEM:
		return KindNotEnoughResources
	case errno == syscall.ENETDOWN || errno == syscall.ENETUNREACH:
		return KindNetworkNotAvailable
	case errno == syscall.ENOTCONN || errno == syscall.EPIPE || errno == syscall.ESHUTDOWN || errno == syscall.ETIMEDOUT:
		return KindNotConnected
	default:
		return KindOther
	}
}
