//go:build windows

package socket

import (
	"golang.org/x/sys/windows"

	"github.com/ftplus/agssock/addr"
)

// rawSocketRaw issues WSASocket with the caller's literal domain/type/
// protocol triple, exactly as Create passes it through.
func rawSocketRaw(domain, typ, protocol int) (uintptr, error) {
	fd, err := windows.Socket(domain, typ, protocol)
	if err != nil {
		return invalidFD, err
	}
	if err := rawSetBlocking(uintptr(fd), false); err != nil {
		windows.Closesocket(fd)
		return invalidFD, err
	}
	return uintptr(fd), nil
}

// domainFamily/typeKind classify a raw domain/type pair into this package's
// own addr.Family/Kind; see the unix build's comment for why unrecognized
// values fall back rather than fail here.
func domainFamily(domain int) addr.Family {
	if domain == windows.AF_INET6 {
		return addr.IPv6
	}
	return addr.IPv4
}

func typeKind(typ int) Kind {
	if typ == windows.SOCK_STREAM {
		return Stream
	}
	return Datagram
}

func platformDomain(family addr.Family) int {
	if family == addr.IPv6 {
		return windows.AF_INET6
	}
	return windows.AF_INET
}

func platformType(kind Kind) int {
	if kind == Stream {
		return windows.SOCK_STREAM
	}
	return windows.SOCK_DGRAM
}

func platformProtocol(kind Kind) int {
	if kind == Stream {
		return windows.IPPROTO_TCP
	}
	return windows.IPPROTO_UDP
}

func rawSetBlocking(fd uintptr, blocking bool) error {
	mode := uint32(1)
	if blocking {
		mode = 0
	}
	return windows.IoctlSocket(windows.Handle(fd), windows.FIONBIO, &mode)
}

func rawBind(fd uintptr, a *addr.Addr) error {
	sa, err := a.Sockaddr()
	if err != nil {
		return err
	}
	return windows.Bind(windows.Handle(fd), sa)
}

func rawListen(fd uintptr, backlog int) error {
	if backlog < 0 {
		backlog = windows.SOMAXCONN
	}
	return windows.Listen(windows.Handle(fd), backlog)
}

func rawConnect(fd uintptr, a *addr.Addr, sync bool) error {
	sa, err := a.Sockaddr()
	if err != nil {
		return err
	}

	if sync {
		if err := rawSetBlocking(fd, true); err != nil {
			return err
		}
		defer rawSetBlocking(fd, false)
	}
	return windows.Connect(windows.Handle(fd), sa)
}

func rawAccept(fd uintptr) (uintptr, error) {
	connFd, _, err := windows.Accept(windows.Handle(fd))
	if err != nil {
		return 0, err
	}
	if err := rawSetBlocking(uintptr(connFd), false); err != nil {
		windows.Closesocket(connFd)
		return 0, err
	}
	return uintptr(connFd), nil
}

func rawClose(fd uintptr) error {
	return windows.Closesocket(windows.Handle(fd))
}

func rawShutdownSend(fd uintptr) error {
	return windows.Shutdown(windows.Handle(fd), windows.SHUT_WR)
}

// rawSend uses Sendto with a nil destination, which on a connected socket
// behaves like plain send(): WriteFile/ReadFile are not reliable across
// both stream and datagram socket handles on Windows.
func rawSend(fd uintptr, p []byte) (int, error) {
	if err := windows.Sendto(windows.Handle(fd), p, 0, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

func rawSendTo(fd uintptr, a *addr.Addr, p []byte) (int, error) {
	sa, err := a.Sockaddr()
	if err != nil {
		return 0, err
	}
	if err := windows.Sendto(windows.Handle(fd), p, 0, sa); err != nil {
		return 0, err
	}
	return len(p), nil
}

func rawRecv(fd uintptr, buf []byte) (int, error) {
	n, _, err := windows.Recvfrom(windows.Handle(fd), buf, 0)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func rawRecvFrom(fd uintptr, buf []byte) (int, *addr.Addr, error) {
	n, from, err := windows.Recvfrom(windows.Handle(fd), buf, 0)
	if err != nil {
		return 0, nil, err
	}
	a, err := addr.FromSockaddr(from)
	if err != nil {
		return n, nil, nil
	}
	return n, a, nil
}

func rawGetsockname(fd uintptr) (*addr.Addr, error) {
	sa, err := windows.Getsockname(windows.Handle(fd))
	if err != nil {
		return nil, err
	}
	return addr.FromSockaddr(sa)
}

func rawGetpeername(fd uintptr) (*addr.Addr, error) {
	sa, err := windows.Getpeername(windows.Handle(fd))
	if err != nil {
		return nil, err
	}
	return addr.FromSockaddr(sa)
}
