//go:build unix

package socket

import (
	"golang.org/x/sys/unix"

	"github.com/ftplus/agssock/addr"
)

// rawSocketRaw issues socket(2) with the caller's literal domain/type/
// protocol triple, exactly as Create passes it through. An unsupported or
// nonsensical triple is the kernel's call to reject, not this package's.
func rawSocketRaw(domain, typ, protocol int) (uintptr, error) {
	fd, err := unix.Socket(domain, typ, protocol)
	if err != nil {
		return invalidFD, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return invalidFD, err
	}
	return uintptr(fd), nil
}

// domainFamily/typeKind classify a raw domain/type pair into this package's
// own addr.Family/Kind, for sockets created through the generic Create
// factory; an unrecognized value falls back to the IPv4/Datagram default
// rather than failing, since the fallback only affects how Local/Remote and
// pool framing behave, and a truly bad triple already failed at socket(2).
func domainFamily(domain int) addr.Family {
	if domain == unix.AF_INET6 {
		return addr.IPv6
	}
	return addr.IPv4
}

func typeKind(typ int) Kind {
	if typ == unix.SOCK_STREAM {
		return Stream
	}
	return Datagram
}

func platformDomain(family addr.Family) int {
	if family == addr.IPv6 {
		return unix.AF_INET6
	}
	return unix.AF_INET
}

func platformType(kind Kind) int {
	if kind == Stream {
		return unix.SOCK_STREAM
	}
	return unix.SOCK_DGRAM
}

func platformProtocol(kind Kind) int {
	if kind == Stream {
		return unix.IPPROTO_TCP
	}
	return unix.IPPROTO_UDP
}

func rawSetBlocking(fd uintptr, blocking bool) error {
	return unix.SetNonblock(int(fd), !blocking)
}

func rawBind(fd uintptr, a *addr.Addr) error {
	sa, err := a.Sockaddr()
	if err != nil {
		return err
	}
	return unix.Bind(int(fd), sa)
}

func rawListen(fd uintptr, backlog int) error {
	if backlog < 0 {
		backlog = unix.SOMAXCONN
	}
	return unix.Listen(int(fd), backlog)
}

// rawConnect issues connect(2). When sync is true the descriptor is
// temporarily switched to blocking for the call and switched back
// afterward, matching the original plugin's approach to a synchronous
// Connect on an otherwise non-blocking socket.
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
	return unix.Connect(int(fd), sa)
}

func rawAccept(fd uintptr) (uintptr, error) {
	connFd, _, err := unix.Accept4(int(fd), unix.SOCK_NONBLOCK)
	if err != nil {
		return 0, err
	}
	return uintptr(connFd), nil
}

func rawClose(fd uintptr) error {
	return unix.Close(int(fd))
}

func rawShutdownSend(fd uintptr) error {
	return unix.Shutdown(int(fd), unix.SHUT_WR)
}

func rawSend(fd uintptr, p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func rawSendTo(fd uintptr, a *addr.Addr, p []byte) (int, error) {
	sa, err := a.Sockaddr()
	if err != nil {
		return 0, err
	}
	if err := unix.Sendto(int(fd), p, 0, sa); err != nil {
		return 0, err
	}
	return len(p), nil
}

func rawRecv(fd uintptr, buf []byte) (int, error) {
	n, err := unix.Read(int(fd), buf)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func rawRecvFrom(fd uintptr, buf []byte) (int, *addr.Addr, error) {
	n, from, err := unix.Recvfrom(int(fd), buf, 0)
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
	sa, err := unix.Getsockname(int(fd))
	if err != nil {
		return nil, err
	}
	return addr.FromSockaddr(sa)
}

func rawGetpeername(fd uintptr) (*addr.Addr, error) {
	sa, err := unix.Getpeername(int(fd))
	if err != nil {
		return nil, err
	}
	return addr.FromSockaddr(sa)
}
