package bindings

import (
	"github.com/ftplus/agssock/addr"
	"github.com/ftplus/agssock/socket"
)

func (b *Bindings) socketOf(key int) (*socket.Socket, bool) {
	obj := b.Host.ObjectByKey(key)
	s, ok := obj.(*socket.Socket)
	return s, ok
}

func (b *Bindings) addrOf(key int) (*addr.Addr, bool) {
	obj := b.Host.ObjectByKey(key)
	a, ok := obj.(*addr.Addr)
	return a, ok
}

// registerNewSocket registers s with the host and binds it back for
// cross-object resolution. Create and its convenience wrappers only return
// a nil Socket for a caller-configuration error (no pool); a failed
// socket(2) call still produces a real Socket whose Valid/ErrorKind reflect
// the failure, so err itself is not the registration gate here.
func (b *Bindings) registerNewSocket(s *socket.Socket, err error) int {
	if s == nil {
		return 0
	}
	key := b.Host.RegisterManagedObject(s, "Socket")
	s.BindHost(b.Host)
	return key
}

func (b *Bindings) registerNewAddr(a *addr.Addr) int {
	key := b.Host.RegisterManagedObject(a, "Addr")
	a.BindHost(b.Host)
	return key
}

// registerSocket populates the Registry with every "Socket::..." entry
// point, matching the names SOCKET_HEADER declares in the original
// plugin interface (method^arity, arity excluding the implicit self).
func (b *Bindings) registerSocket() {
	r := b.Registry

	r.Register("Socket::Create^3", func(domain, typ, protocol int) int {
		return b.registerNewSocket(socket.Create(domain, typ, protocol, socket.WithPool(b.Pool)))
	})
	r.Register("Socket::CreateTCP^0", func() int {
		return b.registerNewSocket(socket.NewTCP(socket.WithPool(b.Pool)))
	})
	r.Register("Socket::CreateUDP^0", func() int {
		return b.registerNewSocket(socket.NewUDP(socket.WithPool(b.Pool)))
	})
	r.Register("Socket::CreateTCPv6^0", func() int {
		return b.registerNewSocket(socket.NewTCPv6(socket.WithPool(b.Pool)))
	})
	r.Register("Socket::CreateUDPv6^0", func() int {
		return b.registerNewSocket(socket.NewUDPv6(socket.WithPool(b.Pool)))
	})

	r.Register("Socket::get_Valid^0", func(selfKey int) bool {
		s, ok := b.socketOf(selfKey)
		return ok && s.Valid()
	})

	r.Register("Socket::get_Tag^0", func(selfKey int) string {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return ""
		}
		return s.Tag()
	})
	r.Register("Socket::set_Tag^1", func(selfKey int, tag string) {
		if s, ok := b.socketOf(selfKey); ok {
			s.SetTag(tag)
		}
	})

	// get_Local/get_Remote materialize the Addr at most once per Socket;
	// Local/Remote themselves register and hold it against the host on
	// first call, so repeated reads just return the cached key.
	r.Register("Socket::get_Local^0", func(selfKey int) int {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return 0
		}
		if _, ok := s.Local(); !ok {
			return 0
		}
		return s.LocalKey()
	})
	r.Register("Socket::get_Remote^0", func(selfKey int) int {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return 0
		}
		if _, ok := s.Remote(); !ok {
			return 0
		}
		return s.RemoteKey()
	})

	r.Register("Socket::Bind^1", func(selfKey, addrKey int) bool {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		return ok && aok && s.Bind(a)
	})
	r.Register("Socket::Listen^1", func(selfKey, backlog int) bool {
		s, ok := b.socketOf(selfKey)
		return ok && s.Listen(backlog)
	})
	r.Register("Socket::Connect^2", func(selfKey, addrKey int, async bool) bool {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		return ok && aok && s.Connect(a, async)
	})
	r.Register("Socket::Accept^0", func(selfKey int) int {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return 0
		}
		conn, ok := s.Accept()
		if !ok {
			return 0
		}
		return b.registerNewSocket(conn, nil)
	})
	r.Register("Socket::Close^0", func(selfKey int) {
		if s, ok := b.socketOf(selfKey); ok {
			s.Close()
		}
	})

	r.Register("Socket::Send^1", func(selfKey int, msg string) bool {
		s, ok := b.socketOf(selfKey)
		return ok && s.Send(msg)
	})
	r.Register("Socket::SendData^1", func(selfKey int, data []byte) bool {
		s, ok := b.socketOf(selfKey)
		return ok && s.SendData(data)
	})
	r.Register("Socket::SendTo^2", func(selfKey, addrKey int, msg string) bool {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		return ok && aok && s.SendTo(a, msg)
	})
	r.Register("Socket::SendDataTo^2", func(selfKey, addrKey int, data []byte) bool {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		return ok && aok && s.SendDataTo(a, data)
	})

	r.Register("Socket::Recv^0", func(selfKey int) string {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return ""
		}
		msg, _ := s.Recv()
		return msg
	})
	r.Register("Socket::RecvData^0", func(selfKey int) []byte {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return nil
		}
		data, _ := s.RecvData()
		return data
	})
	// RecvFrom/RecvDataFrom copy the sender's address into the Addr the
	// caller passes in.
	r.Register("Socket::RecvFrom^1", func(selfKey, addrKey int) string {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		if !ok || !aok {
			return ""
		}
		msg, from, ok := s.RecvFrom()
		if !ok {
			return ""
		}
		if from != nil {
			*a = *from
		}
		return msg
	})
	r.Register("Socket::RecvDataFrom^1", func(selfKey, addrKey int) []byte {
		s, ok := b.socketOf(selfKey)
		a, aok := b.addrOf(addrKey)
		if !ok || !aok {
			return nil
		}
		data, from, ok := s.RecvDataFrom()
		if !ok {
			return nil
		}
		if from != nil {
			*a = *from
		}
		return data
	})

	r.Register("Socket::ErrorValue^0", func(selfKey int) int {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return 0
		}
		return int(s.ErrorKind())
	})
	r.Register("Socket::ErrorString^0", func(selfKey int) string {
		s, ok := b.socketOf(selfKey)
		if !ok {
			return ""
		}
		return s.ErrorString()
	})

	// GetOption/SetOption are named no-ops: the original plugin's stubs
	// never implemented a real socket-option surface, and this module
	// doesn't either.
	r.Register("Socket::GetOption^2", func(selfKey, level, option int) int { return 0 })
	r.Register("Socket::SetOption^3", func(selfKey, level, option, value int) {})
}
