// Package addr implements a family-agnostic socket address value: enough to
// be bound, connected against, or handed back from Accept/RecvFrom,
// independent of whether it's IPv4 or IPv6 underneath.
package addr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/ftplus/agssock/host"
)

// Family names which address family an Addr holds. It mirrors the IPv4/IPv6
// constants the host surface exposes, not the platform's raw AF_* values
// (which differ in number across unix and Windows).
type Family int

const (
	Unspecified Family = iota
	IPv4
	IPv6
)

// Addr is a bound-size socket address: a family, an IP, and a port. The
// zero value is an Unspecified address with no IP and port 0.
type Addr struct {
	family Family
	ip     net.IP
	port   int
}

// New creates an empty address of the given family. In addition to the
// Unspecified/IPv4/IPv6 constants, it accepts the script-facing aliases -1
// (IPv4) and -2 (IPv6), matching the original plugin's exported family
// constants.
func New(family Family) *Addr {
	return &Addr{family: resolveFamily(family)}
}

func resolveFamily(family Family) Family {
	switch family {
	case -1:
		return IPv4
	case -2:
		return IPv6
	default:
		return family
	}
}

// NewIP creates an IPv4 address from a literal IP string and port.
func NewIP(ip string, port int) (*Addr, error) {
	return newLiteral(IPv4, ip, port)
}

// NewIPv6 creates an IPv6 address from a literal IP string and port.
func NewIPv6(ip string, port int) (*Addr, error) {
	return newLiteral(IPv6, ip, port)
}

func newLiteral(family Family, ip string, port int) (*Addr, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("addr: invalid IP %q", ip)
	}
	return &Addr{family: family, ip: parsed, port: port}, nil
}

// NewFromString resolves a "[scheme://]host[:port]" string into an address,
// preferring the given family when a host resolves to both. Resolution is
// a blocking DNS lookup; callers on a latency-sensitive path should not
// call this synchronously from script code that can't tolerate it.
func NewFromString(s string, family Family) (*Addr, error) {
	a := &Addr{family: resolveFamily(family)}
	if err := a.SetAddress(s); err != nil {
		return nil, err
	}
	return a, nil
}

// Family reports the address's family.
func (a *Addr) Family() Family { return a.family }

// Port returns the address's port in host byte order.
func (a *Addr) Port() int { return a.port }

// SetPort sets the address's port.
func (a *Addr) SetPort(port int) { a.port = port }

// IP returns the address's literal IP, or "" if unset.
func (a *Addr) IP() string {
	if a.ip == nil {
		return ""
	}
	return a.ip.String()
}

// SetIP parses and sets the address's literal IP, adopting its family.
func (a *Addr) SetIP(ip string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return fmt.Errorf("addr: invalid IP %q", ip)
	}
	a.ip = parsed
	if parsed.To4() != nil {
		a.family = IPv4
	} else {
		a.family = IPv6
	}
	return nil
}

// Address formats the address as a human string: the reverse-resolved
// hostname in place of the literal IP when PTR resolution succeeds, with
// ":port" appended when a port is set. The original additionally names the
// port's well-known service (producing e.g. "domain://dns.google" for
// 8.8.8.8:53); the standard library has no portable numeric-port-to-service
// lookup to match that with, so this always falls back to the numeric port.
func (a *Addr) Address() string {
	if a.ip == nil {
		return ""
	}
	host := a.ip.String()
	if names, err := net.LookupAddr(host); err == nil && len(names) > 0 {
		host = strings.TrimSuffix(names[0], ".")
	}
	if a.port == 0 {
		return host
	}
	return host + ":" + strconv.Itoa(a.port)
}

// SetAddress parses "[scheme://]host[:port]" and resolves host to a literal
// IP via a blocking DNS lookup. Following the original plugin's own
// behavior, a failed resolution leaves the address unchanged rather than
// clearing it or returning a zero value; the error is still returned so
// callers can tell.
//
// A trailing ":port" is only split off for IPv4 (and unspecified-family)
// addresses, since a literal IPv6 host is itself full of colons.
func (a *Addr) SetAddress(s string) error {
	host := s
	service := ""

	if idx := strings.Index(host, "://"); idx >= 0 {
		service = host[:idx]
		host = host[idx+3:]
	}

	if a.family != IPv6 {
		if idx := strings.LastIndex(host, ":"); idx >= 0 {
			service = host[idx+1:]
			host = host[:idx]
		}
	}

	ctx := context.Background()
	port := a.port
	if service != "" {
		network := "udp"
		if a.family == IPv6 {
			network = "udp6"
		}
		p, err := net.DefaultResolver.LookupPort(ctx, network, service)
		if err != nil {
			return fmt.Errorf("addr: resolving service %q: %w", service, err)
		}
		port = p
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return fmt.Errorf("addr: resolving host %q: %w", host, err)
	}
	ip, family, err := pickAddr(ips, a.family)
	if err != nil {
		return err
	}

	a.ip = ip
	a.family = family
	a.port = port
	return nil
}

func pickAddr(ips []net.IPAddr, prefer Family) (net.IP, Family, error) {
	var v4, v6 net.IP
	for _, ip := range ips {
		if ip.IP.To4() != nil {
			if v4 == nil {
				v4 = ip.IP
			}
		} else if v6 == nil {
			v6 = ip.IP
		}
	}
	switch prefer {
	case IPv6:
		if v6 != nil {
			return v6, IPv6, nil
		}
		if v4 != nil {
			return v4, IPv4, nil
		}
	default:
		if v4 != nil {
			return v4, IPv4, nil
		}
		if v6 != nil {
			return v6, IPv6, nil
		}
	}
	return nil, Unspecified, errors.New("addr: resolution returned no addresses")
}

// Bytes serializes the address to a compact, self-describing form suitable
// for round-tripping through SockData within the same process. It is not a
// copy of any OS sockaddr layout.
func (a *Addr) Bytes() []byte {
	buf := make([]byte, 19)
	buf[0] = byte(a.family)
	buf[1] = byte(a.port >> 8)
	buf[2] = byte(a.port)
	if a.ip != nil {
		copy(buf[3:], a.ip.To16())
	}
	return buf
}

// NewFromBytes decodes an address previously produced by Bytes. Truncated
// or oversized input is accepted and copied up to the fixed width, matching
// the original's MIN(size, sizeof(SockAddr)) semantics.
func NewFromBytes(b []byte) *Addr {
	var buf [19]byte
	n := len(b)
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf[:], b[:n])

	a := &Addr{family: Family(buf[0]), port: int(buf[1])<<8 | int(buf[2])}
	a.ip = net.IP(append([]byte{}, buf[3:]...))
	return a
}

// Dispose releases any resource the address holds. An Addr holds none; the
// method exists so *Addr satisfies host.ManagedObject.
func (a *Addr) Dispose() {}

// BindHost gives the address a Host to resolve cross-object references
// against. An Addr never refers to another managed object, so this is a
// no-op; the method exists so *Addr satisfies host.ManagedObject.
func (a *Addr) BindHost(host.Host) {}

// Serialize copies the address's Bytes() form into buf verbatim, up to
// len(buf), and returns the number of bytes copied — mirroring the
// original's memcpy(buffer, addr, MIN(size, sizeof(SockAddr))), which
// truncates on a short buffer rather than refusing to write at all.
func (a *Addr) Serialize(buf []byte) int {
	return copy(buf, a.Bytes())
}
