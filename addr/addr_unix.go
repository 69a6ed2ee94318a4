//go:build unix

package addr

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Sockaddr converts the address to the raw form unix socket syscalls
// (Bind, Connect, Sendto, ...) expect.
func (a *Addr) Sockaddr() (unix.Sockaddr, error) {
	switch a.family {
	case IPv4:
		sa := &unix.SockaddrInet4{Port: a.port}
		ip4 := a.ip.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("addr: %v is not an IPv4 address", a.ip)
		}
		copy(sa.Addr[:], ip4)
		return sa, nil
	case IPv6:
		sa := &unix.SockaddrInet6{Port: a.port}
		ip6 := a.ip.To16()
		if ip6 == nil {
			return nil, fmt.Errorf("addr: %v is not an IPv6 address", a.ip)
		}
		copy(sa.Addr[:], ip6)
		return sa, nil
	default:
		return nil, fmt.Errorf("addr: address has no family set")
	}
}

// FromSockaddr builds an Addr from a raw sockaddr returned by Getsockname,
// Getpeername, Accept4 or Recvfrom.
func FromSockaddr(sa unix.Sockaddr) (*Addr, error) {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		ip := make(net.IP, 4)
		copy(ip, v.Addr[:])
		return &Addr{family: IPv4, ip: ip, port: v.Port}, nil
	case *unix.SockaddrInet6:
		ip := make(net.IP, 16)
		copy(ip, v.Addr[:])
		return &Addr{family: IPv6, ip: ip, port: v.Port}, nil
	default:
		return nil, fmt.Errorf("addr: unsupported sockaddr type %T", sa)
	}
}
