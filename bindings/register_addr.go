package bindings

import "github.com/ftplus/agssock/addr"

// registerAddr populates the Registry with every "Addr::..." entry point,
// matching ADDR_HEADER's Create/CreateFromString/property surface.
func (b *Bindings) registerAddr() {
	r := b.Registry

	r.Register("Addr::Create^1", func(family int) int {
		return b.registerNewAddr(addr.New(addr.Family(family)))
	})
	r.Register("Addr::CreateFromData^1", func(data []byte) int {
		return b.registerNewAddr(addr.NewFromBytes(data))
	})
	r.Register("Addr::CreateIP^2", func(ip string, port int) int {
		a, err := addr.NewIP(ip, port)
		if err != nil {
			return 0
		}
		return b.registerNewAddr(a)
	})
	r.Register("Addr::CreateIPv6^2", func(ip string, port int) int {
		a, err := addr.NewIPv6(ip, port)
		if err != nil {
			return 0
		}
		return b.registerNewAddr(a)
	})
	r.Register("Addr::CreateFromString^2", func(s string, family int) int {
		a, err := addr.NewFromString(s, addr.Family(family))
		if err != nil {
			return 0
		}
		return b.registerNewAddr(a)
	})

	r.Register("Addr::get_Family^0", func(selfKey int) int {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return 0
		}
		return int(a.Family())
	})
	r.Register("Addr::get_Port^0", func(selfKey int) int {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return 0
		}
		return a.Port()
	})
	r.Register("Addr::set_Port^1", func(selfKey, port int) {
		if a, ok := b.addrOf(selfKey); ok {
			a.SetPort(port)
		}
	})
	r.Register("Addr::get_IP^0", func(selfKey int) string {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return ""
		}
		return a.IP()
	})
	r.Register("Addr::set_IP^1", func(selfKey int, ip string) bool {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return false
		}
		return a.SetIP(ip) == nil
	})
	r.Register("Addr::get_Address^0", func(selfKey int) string {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return ""
		}
		return a.Address()
	})
	r.Register("Addr::set_Address^1", func(selfKey int, s string) bool {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return false
		}
		return a.SetAddress(s) == nil
	})
	r.Register("Addr::GetData^0", func(selfKey int) []byte {
		a, ok := b.addrOf(selfKey)
		if !ok {
			return nil
		}
		return a.Bytes()
	})
}
