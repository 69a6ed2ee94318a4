//go:build windows

package errmap

import (
	"errors"

	"golang.org/x/sys/windows"
)

// of classifies a WSA error into a portable Kind. Mirrors the _WIN32 branch
// of original_source/src/API.cpp's AGSEnumerateError.
func of(err error) Kind {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return KindOther
	}

	switch {
	case errno == 0:
		return KindNoError
	case errno == windows.WSAEACCES:
		return KindAccessDenied
	case errno == windows.WSAEADDRINUSE || errno == windows.WSAEADDRNOTAVAIL || errno == windows.WSAEAFNOSUPPORT:
		return KindAddressNotAvailable
	case errno == windows.WSAEWOULDBLOCK || errno == windows.WSAEALREADY || errno == windows.WSAEINPROGRESS || errno == windows.WSAEINTR:
		return KindPleaseTryAgain
	case errno == windows.WSAEBADF || errno == windows.WSAENOTSOCK:
		return KindSocketNotValid
	case errno == windows.WSAECONNABORTED || errno == windows.WSAECONNREFUSED || errno == windows.WSAECONNRESET || errno == windows.WSAENETRESET:
		return KindDisconnected
	case errno == windows.WSAEDESTADDRREQ || errno == windows.WSAEINVAL || errno == windows.WSAEPROTOTYPE || errno == windows.WSAEFAULT || errno == windows.WSAEISCONN:
		return KindInvalid
	case errno == windows.WSAEOPNOTSUPP || errno == windows.WSAEPROTONOSUPPORT || errno == windows.WSAESOCKTNOSUPPORT:
		return KindUnsupported
	case errno == windows.WSAEHOSTUNREACH:
		return KindHostNotReached
	case errno == windows.WSAEMFILE || errno == windows.WSAENOBUFS:
		return KindNotEnoughResources
	case errno == windows.WSAENETDOWN || errno == windows.WSAENETUNREACH:
		return KindNetworkNotAvailable
	case errno == windows.WSAENOTCONN || errno == windows.WSAESHUTDOWN || errno == windows.WSAETIMEDOUT:
		return KindNotConnected
	default:
		return KindOther
	}
}
