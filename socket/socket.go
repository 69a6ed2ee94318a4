// Package socket implements non-blocking BSD-style sockets over TCP and
// UDP, IPv4 and IPv6. Connect (async), Accept, Send/SendTo and Recv report
// "try again later" as a false/nil result with no error recorded;
// RecvFrom/RecvDataFrom instead record the would-block error itself, which
// ErrorKind reports as KindPleaseTryAgain.
//
// A Socket becomes pooled (its incoming data drained by a background
// goroutine into its own buffer) the moment it successfully Connects, is
// returned by Accept, or, for a datagram socket, successfully Binds.
// RecvFrom/RecvDataFrom bypass the pool and talk to the kernel directly.
package socket

import (
	"errors"
	"sync"
	"time"

	"github.com/ftplus/agssock/addr"
	"github.com/ftplus/agssock/buffer"
	"github.com/ftplus/agssock/errmap"
	"github.com/ftplus/agssock/host"
	"github.com/ftplus/agssock/internal/config"
	"github.com/ftplus/agssock/internal/poller"
	"github.com/ftplus/agssock/sockpool"
)

// rawSelectReadable reports whether fd becomes readable within timeout,
// reusing the same readiness primitive the pool's drain loop blocks on.
// Socket.Close calls this to give a TCP peer a short window to respond to
// a half-close before forcing the descriptor shut.
func rawSelectReadable(fd uintptr, timeout time.Duration) (bool, error) {
	ready, err := poller.New().Wait([]uintptr{fd}, timeout)
	if err != nil {
		return false, err
	}
	return len(ready) > 0, nil
}

// tryAgain reports whether err is the kind of failure that means "nothing
// happened yet, call again later" rather than a real fault: EWOULDBLOCK,
// EAGAIN, EINPROGRESS, EALREADY and EINTR all land here via errmap's
// clustering, matching the original plugin's own error-normalization rule
// for non-blocking Connect, Accept, Send and Recv.
func tryAgain(err error) bool {
	return err != nil && errmap.Of(err) == errmap.KindPleaseTryAgain
}

// Kind distinguishes stream (TCP-like) sockets, which use append/extract
// framing and a graceful half-close on Close, from datagram (UDP-like)
// sockets, which use packet framing and close immediately.
type Kind int

const (
	Datagram Kind = iota
	Stream
)

// Option configures a Socket at construction time.
type Option func(*Socket)

// WithPool registers the socket with the given pool. Required: this
// package keeps no implicit global pool, so every Create/NewUDP/NewTCP
// call needs one, whether that means one shared Pool for the whole process
// or a separate Pool per logical group of sockets.
func WithPool(p *sockpool.Pool) Option {
	return func(s *Socket) { s.pool = p }
}

// invalidFD is the sentinel descriptor value for a socket that either
// failed at creation or has since been closed, mirroring the original
// plugin's INVALID_SOCKET/SOCKET_ERROR convention: passing it to any
// syscall (Bind, Listen, ...) fails with EBADF/WSAENOTSOCK on its own,
// which errmap already classifies as SocketNotValid, so no special-casing
// is needed anywhere else in this file.
const invalidFD = ^uintptr(0)

// Socket is a managed, non-blocking socket handle.
//
// Fields touched by the pool's drain loop (incoming, including the
// incoming.Err that PumpOnce sets) are only safe to read outside the loop while the pool is
// locked; Recv/RecvData do this internally.
type Socket struct {
	mu sync.Mutex

	fd                 uintptr
	domain, typ, proto int
	family             addr.Family
	kind               Kind

	tag                   string
	local, remote         *addr.Addr
	localHeld, remoteHeld bool
	localKey, remoteKey   int

	incoming buffer.Buffer
	lastErr  error

	pool   *sockpool.Pool
	pooled bool

	hostRef host.Host
}

// Create is the generic factory behind NewUDP/NewTCP/NewUDPv6/NewTCPv6: it
// builds a socket from a literal domain/type/protocol triple, including
// combinations the kernel will reject. Create always returns a non-nil
// Socket — any socket(2) failure is reflected through Err/ErrorKind rather
// than a returned error, matching the original plugin's Socket_Create,
// which always `new`s a Socket object even when the underlying socket()
// call inside it fails, leaving sock->id invalid and sock->error set. The
// only case this returns a non-nil error for is a missing pool, since that
// is a caller-configuration mistake this package has no fallback for.
func Create(domain, typ, protocol int, opts ...Option) (*Socket, error) {
	s := &Socket{
		fd:     invalidFD,
		domain: domain,
		typ:    typ,
		proto:  protocol,
		family: domainFamily(domain),
		kind:   typeKind(typ),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		return nil, errors.New("socket: no pool configured, pass socket.WithPool")
	}

	fd, err := rawSocketRaw(domain, typ, protocol)
	s.lastErr = err
	if err == nil {
		s.fd = fd
	}
	return s, nil
}

func create(family addr.Family, kind Kind, opts ...Option) (*Socket, error) {
	return Create(platformDomain(family), platformType(kind), platformProtocol(kind), opts...)
}

// NewUDP creates an IPv4 UDP socket.
func NewUDP(opts ...Option) (*Socket, error) { return create(addr.IPv4, Datagram, opts...) }

// NewTCP creates an IPv4 TCP socket.
func NewTCP(opts ...Option) (*Socket, error) { return create(addr.IPv4, Stream, opts...) }

// NewUDPv6 creates an IPv6 UDP socket.
func NewUDPv6(opts ...Option) (*Socket, error) { return create(addr.IPv6, Datagram, opts...) }

// NewTCPv6 creates an IPv6 TCP socket.
func NewTCPv6(opts ...Option) (*Socket, error) { return create(addr.IPv6, Stream, opts...) }

// Valid reports whether the socket's descriptor is not the sentinel. A socket
// stays valid after a graceful Close until its peer's response is
// observed, matching the original plugin's wording: "you can still receive
// until socket is marked invalid".
func (s *Socket) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd != invalidFD
}

// Tag returns the caller-assigned label for this socket.
func (s *Socket) Tag() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// SetTag assigns a caller label to this socket, purely for the caller's
// own bookkeeping.
func (s *Socket) SetTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = tag
}

// Err returns the error observed by the most recent operation, or nil.
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ErrorString renders Err in human-readable form, or "" if there is none.
func (s *Socket) ErrorString() string {
	err := s.Err()
	if err == nil {
		return ""
	}
	return err.Error()
}

// ErrorKind classifies Err into the portable taxonomy, for callers that
// want to branch on error category rather than match platform-specific
// errors.
func (s *Socket) ErrorKind() errmap.Kind {
	return errmap.Of(s.Err())
}

// Local returns the socket's local address, resolving it via the kernel on
// first access and caching the result. ok is false if resolution failed;
// check Err for why.
func (s *Socket) Local() (a *addr.Addr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local == nil {
		s.local = addr.New(s.family)
		s.localHeld = true
		s.registerAddrLocked(s.local, &s.localKey)
		s.refreshLocalLocked()
	}
	return s.local, s.lastErr == nil
}

// Remote returns the socket's remote address, resolving it via the kernel
// on first access and caching the result.
func (s *Socket) Remote() (a *addr.Addr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remote == nil {
		s.remote = addr.New(s.family)
		s.remoteHeld = true
		s.registerAddrLocked(s.remote, &s.remoteKey)
		s.refreshRemoteLocked()
	}
	return s.remote, s.lastErr == nil
}

// LocalKey/RemoteKey return the host registry key Local/Remote registered
// its cached address under, or 0 if that address has never been
// materialized or this socket has no host. Bindings call these right
// after Local/Remote to hand the script side a handle.
func (s *Socket) LocalKey() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localKey
}

func (s *Socket) RemoteKey() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteKey
}

// registerAddrLocked registers a freshly materialized Local/Remote address
// with the host and holds a reference to it immediately, mirroring the
// original plugin's AGS_HOLD call right after SockAddr_Create: the address
// must survive until this socket releases it in Dispose, independent of
// whatever the script side does with the handle it's given.
func (s *Socket) registerAddrLocked(a *addr.Addr, key *int) {
	if s.hostRef == nil {
		return
	}
	*key = s.hostRef.RegisterManagedObject(a, "Addr")
	a.BindHost(s.hostRef)
	s.hostRef.HoldRef(*key)
}

func (s *Socket) refreshLocalLocked() {
	a, err := rawGetsockname(s.fd)
	s.lastErr = err
	if err == nil {
		*s.local = *a
	}
}

func (s *Socket) refreshRemoteLocked() {
	a, err := rawGetpeername(s.fd)
	s.lastErr = err
	if err == nil {
		*s.remote = *a
	}
}

// Bind assigns a local address to the socket. A successful Bind on a
// datagram socket also registers it with the pool, since UDP has no
// Connect/Accept moment to do that at otherwise and still needs its
// incoming data drained by the background goroutine.
func (s *Socket) Bind(a *addr.Addr) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := rawBind(s.fd, a)
	s.lastErr = err
	if err == nil {
		if s.localHeld {
			s.refreshLocalLocked()
		}
		if s.kind == Datagram && !s.pooled {
			s.pool.Add(s)
			s.pooled = true
		}
	}
	return err == nil
}

// Listen makes the socket listen for incoming TCP connections. A negative
// backlog requests the platform's default (SOMAXCONN).
func (s *Socket) Listen(backlog int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := rawListen(s.fd, backlog)
	s.lastErr = err
	return err == nil
}

// Connect connects the socket to a remote address. In sync mode (the
// default) this blocks until the handshake completes or fails; in async
// mode it returns immediately, almost always with ok=false and Err()==nil,
// meaning "in progress, try again" — for UDP, which has no real handshake,
// Connect always completes immediately either way.
func (s *Socket) Connect(a *addr.Addr, async bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rawErr := rawConnect(s.fd, a, !async)
	reported := rawErr
	if tryAgain(rawErr) {
		reported = nil
	}
	s.lastErr = reported

	ok := rawErr == nil
	if ok {
		if s.remoteHeld {
			s.refreshRemoteLocked()
		}
		if !s.pooled {
			s.pool.Add(s)
			s.pooled = true
		}
	}
	return ok
}

// Accept accepts one pending connection on a listening socket. ok is false
// either because nothing is pending yet (Err()==nil) or because accept
// itself failed (Err() != nil).
func (s *Socket) Accept() (conn *Socket, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd2, rawErr := rawAccept(s.fd)
	reported := rawErr
	if tryAgain(rawErr) {
		reported = nil
	}
	s.lastErr = reported
	if rawErr != nil {
		return nil, false
	}

	conn = &Socket{
		fd:     fd2,
		domain: s.domain,
		typ:    s.typ,
		proto:  s.proto,
		family: s.family,
		kind:   s.kind,
		pool:   s.pool,
	}
	conn.pool.Add(conn)
	conn.pooled = true
	return conn, true
}

// Close closes the socket. For a stream socket this first attempts a
// graceful half-close and gives the peer a short window to respond before
// forcing the descriptor closed; the socket stays Valid until that
// resolves. For a datagram socket it closes immediately.
func (s *Socket) Close() {
	s.mu.Lock()
	s.closeLocked()
	s.mu.Unlock()
	s.leavePoolIfClosed()
}

// leavePoolIfClosed unregisters an invalidated socket from its pool. It runs
// without s.mu held: the drain loop calls FD (which takes s.mu) while holding
// the pool lock.
func (s *Socket) leavePoolIfClosed() {
	s.mu.Lock()
	leave := s.pooled && s.fd == invalidFD
	if leave {
		s.pooled = false
	}
	s.mu.Unlock()
	if leave {
		s.pool.Remove(s)
	}
}

func (s *Socket) closeLocked() {
	if s.fd == invalidFD {
		return
	}
	if s.kind == Stream {
		_ = rawShutdownSend(s.fd)
		if readable, err := rawSelectReadable(s.fd, config.DefaultCloseWindow); err == nil && readable {
			return
		}
	}
	s.invalidateLocked()
}

func (s *Socket) invalidateLocked() {
	if s.fd == invalidFD {
		return
	}
	err := rawClose(s.fd)
	s.fd = invalidFD
	s.lastErr = err
}

// Send sends a string to the connected remote host in full before
// returning, unless the socket would block partway through, in which case
// it returns ok=false with Err()==nil: try again later with the remainder.
func (s *Socket) Send(msg string) bool {
	return s.sendLoop([]byte(msg))
}

// SendData sends raw bytes, with the same try-again contract as Send.
func (s *Socket) SendData(data []byte) bool {
	return s.sendLoop(data)
}

func (s *Socket) sendLoop(p []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(p) > 0 {
		n, err := rawSend(s.fd, p)
		if err != nil {
			reported := err
			if tryAgain(err) {
				reported = nil
			}
			s.lastErr = reported
			return false
		}
		p = p[n:]
	}
	s.lastErr = nil
	return true
}

// SendTo sends a string to an explicit remote address (datagram sockets).
func (s *Socket) SendTo(a *addr.Addr, msg string) bool {
	return s.sendToLoop(a, []byte(msg))
}

// SendDataTo sends raw bytes to an explicit remote address.
func (s *Socket) SendDataTo(a *addr.Addr, data []byte) bool {
	return s.sendToLoop(a, data)
}

func (s *Socket) sendToLoop(a *addr.Addr, p []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(p) > 0 {
		n, err := rawSendTo(s.fd, a, p)
		if err != nil {
			reported := err
			if tryAgain(err) {
				reported = nil
			}
			s.lastErr = reported
			return false
		}
		p = p[n:]
	}
	s.lastErr = nil
	return true
}

// Recv returns the next message as a string, truncated at the first NUL
// byte (matching the original's c_str() truncation when data contains
// embedded zero bytes). ok is false for both "try again" (Err()==nil) and
// "failed" (Err() != nil).
func (s *Socket) Recv() (string, bool) {
	raw, ok := s.recv()
	if !ok {
		return "", false
	}
	return cString(raw), true
}

// RecvData returns the next message as raw bytes, without the NUL
// truncation Recv applies.
func (s *Socket) RecvData() ([]byte, bool) {
	return s.recv()
}

func (s *Socket) recv() ([]byte, bool) {
	s.pool.Lock()
	if s.incoming.Empty() {
		err := s.incoming.Err
		s.pool.Unlock()

		s.mu.Lock()
		s.lastErr = err
		if err != nil {
			s.invalidateLocked()
		}
		s.mu.Unlock()
		return nil, false
	}

	var raw []byte
	if s.kind == Stream {
		raw = s.incoming.Extract()
	} else {
		raw = append([]byte(nil), s.incoming.Front()...)
		s.incoming.Pop()
	}
	s.pool.Unlock()

	s.mu.Lock()
	s.lastErr = nil
	if len(raw) == 0 && s.kind == Stream {
		s.invalidateLocked()
	}
	s.mu.Unlock()
	return raw, true
}

// RecvFrom receives one datagram directly from the kernel, bypassing the
// pool, and reports the sender's address. ok is false on failure.
func (s *Socket) RecvFrom() (msg string, from *addr.Addr, ok bool) {
	data, from, ok := s.RecvDataFrom()
	if !ok {
		return "", nil, false
	}
	return cString(data), from, true
}

// RecvDataFrom is RecvFrom without the NUL truncation.
func (s *Socket) RecvDataFrom() (data []byte, from *addr.Addr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, config.RecvChunk)
	n, from, err := rawRecvFrom(s.fd, buf)
	s.lastErr = err
	if err != nil {
		return nil, nil, false
	}
	return buf[:n], from, true
}

// FD implements sockpool.Member.
func (s *Socket) FD() uintptr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd
}

// Valid (as sockpool.Member) is the same method as the public Valid above;
// Go interface satisfaction needs no separate definition.

// PumpOnce implements sockpool.Member: one non-blocking read, applied
// straight to incoming. Called by the pool with the pool already locked.
func (s *Socket) PumpOnce() bool {
	buf := make([]byte, config.RecvChunk)
	n, err := rawRecv(s.fd, buf)
	if err != nil {
		if tryAgain(err) {
			return true
		}
		s.incoming.Err = err
		return false
	}

	if s.kind == Stream {
		s.incoming.Append(buf[:n])
	} else {
		s.incoming.Push(buf[:n])
	}
	return n > 0 || s.kind == Datagram
}

// cString mimics C's c_str(): everything up to the first NUL byte.
func cString(p []byte) string {
	for i, c := range p {
		if c == 0 {
			return string(p[:i])
		}
	}
	return string(p)
}

// Dispose releases the embedder references this socket took out on first
// materializing Local/Remote, then closes the socket immediately, without
// the graceful half-close window Close gives a TCP peer — once the host is
// disposing of the object, nothing will call Recv again to notice a
// graceful finish. Satisfies host.ManagedObject.
func (s *Socket) Dispose() {
	s.mu.Lock()
	if s.hostRef != nil {
		if s.localKey != 0 {
			s.hostRef.ReleaseRef(s.localKey)
		}
		if s.remoteKey != 0 {
			s.hostRef.ReleaseRef(s.remoteKey)
		}
	}
	s.invalidateLocked()
	s.mu.Unlock()
	s.leavePoolIfClosed()
}

// BindHost gives the socket a Host to resolve cross-object references
// against. For a freshly created socket this is all it does; for one just
// reconstructed by Deserialize, it also re-links the cached Local/Remote
// addresses by the keys Deserialize carried over, the way the original
// plugin's Unserialize resolves sock->local/sock->remote via AGS_FROM_KEY —
// which only works if those Addr objects were already restored and
// registered with the host by the time this runs. Satisfies
// host.ManagedObject. Named apart from Bind, which is the socket's own
// bind(2) operation.
func (s *Socket) BindHost(h host.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostRef = h
	if s.local == nil && s.localKey != 0 {
		if a, ok := h.ObjectByKey(s.localKey).(*addr.Addr); ok {
			s.local = a
			s.localHeld = true
		}
	}
	if s.remote == nil && s.remoteKey != 0 {
		if a, ok := h.ObjectByKey(s.remoteKey).(*addr.Addr); ok {
			s.remote = a
			s.remoteHeld = true
		}
	}
}

// socketWireHeader is the fixed header size: six host-endian int32 fields,
// {domain, type, protocol, error, local_key, remote_key}.
const socketWireHeader = 24

// Serialize copies the socket's metadata — domain, type, protocol, the
// portable kind of its last error, the registry keys of its cached
// Local/Remote addresses if any, and its tag — into buf verbatim, up to
// len(buf). It never serializes the underlying descriptor: a restored
// Socket always starts closed, the same way a live OS handle can't survive
// a save file. Mirrors the original's memcpy(buffer, &serial,
// MIN(length, sizeof(serial))) followed by tag.copy(buffer+size,
// length-size): the header truncates first, then whatever room is left
// takes as much of the tag as fits. Satisfies host.ManagedObject.
func (s *Socket) Serialize(buf []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var header [socketWireHeader]byte
	putInt32(header[0:4], int32(s.domain))
	putInt32(header[4:8], int32(s.typ))
	putInt32(header[8:12], int32(s.proto))
	putInt32(header[12:16], int32(errmap.Of(s.lastErr)))
	putInt32(header[16:20], int32(s.localKey))
	putInt32(header[20:24], int32(s.remoteKey))

	n := copy(buf, header[:])
	n += copy(buf[n:], s.tag)
	return n
}

// Deserialize reconstructs a Socket from data previously produced by
// Serialize. The result is always closed (Valid() == false): the
// descriptor it once wrapped did not survive serialization. The tag is
// whatever trails the fixed header in data, matching the original's own
// "whatever is left in the buffer is the tag" convention rather than a
// separately stored length field. Call BindHost afterward to re-link the
// cached Local/Remote addresses by the keys carried here.
func Deserialize(data []byte, pool *sockpool.Pool) (*Socket, error) {
	if len(data) < socketWireHeader {
		return nil, errors.New("socket: truncated serialized data")
	}
	domain := int(getInt32(data[0:4]))
	typ := int(getInt32(data[4:8]))
	protocol := int(getInt32(data[8:12]))
	errKind := errmap.Kind(getInt32(data[12:16]))

	var lastErr error
	if errKind != errmap.KindNoError {
		lastErr = errKind
	}

	return &Socket{
		fd:        invalidFD,
		domain:    domain,
		typ:       typ,
		proto:     protocol,
		family:    domainFamily(domain),
		kind:      typeKind(typ),
		lastErr:   lastErr,
		localKey:  int(getInt32(data[16:20])),
		remoteKey: int(getInt32(data[20:24])),
		tag:       string(data[socketWireHeader:]),
		pool:      pool,
	}, nil
}

func putInt32(buf []byte, v int32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

func getInt32(buf []byte) int32 {
	return int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2])<<16 | int32(buf[3])<<24
}
