package bindings

import "github.com/ftplus/agssock/sockdata"

func (b *Bindings) sockDataOf(key int) (*sockdata.SockData, bool) {
	obj := b.Host.ObjectByKey(key)
	d, ok := obj.(*sockdata.SockData)
	return d, ok
}

func (b *Bindings) registerNewSockData(d *sockdata.SockData) int {
	key := b.Host.RegisterManagedObject(d, "SockData")
	d.BindHost(b.Host)
	return key
}

// registerSockData populates the Registry with every "SockData::..." entry
// point, matching SOCKDATA_HEADER's Create/CreateEmpty/CreateFromString and
// geti_Chars/seti_Chars index property surface.
func (b *Bindings) registerSockData() {
	r := b.Registry

	r.Register("SockData::Create^2", func(size int, fill byte) int {
		return b.registerNewSockData(sockdata.New(size, fill))
	})
	r.Register("SockData::CreateEmpty^0", func() int {
		return b.registerNewSockData(sockdata.NewEmpty())
	})
	r.Register("SockData::CreateFromString^1", func(s string) int {
		return b.registerNewSockData(sockdata.NewFromString(s))
	})

	r.Register("SockData::get_Size^0", func(selfKey int) int {
		d, ok := b.sockDataOf(selfKey)
		if !ok {
			return 0
		}
		return d.Size()
	})
	r.Register("SockData::set_Size^1", func(selfKey, size int) {
		if d, ok := b.sockDataOf(selfKey); ok {
			d.SetSize(size)
		}
	})
	r.Register("SockData::geti_Chars^1", func(selfKey, index int) byte {
		d, ok := b.sockDataOf(selfKey)
		if !ok {
			return 0
		}
		return d.At(index)
	})
	r.Register("SockData::seti_Chars^2", func(selfKey, index int, value byte) {
		if d, ok := b.sockDataOf(selfKey); ok {
			d.SetAt(index, value)
		}
	})
	r.Register("SockData::AsString^0", func(selfKey int) string {
		d, ok := b.sockDataOf(selfKey)
		if !ok {
			return ""
		}
		return d.AsString()
	})
	r.Register("SockData::Clear^0", func(selfKey int) {
		if d, ok := b.sockDataOf(selfKey); ok {
			d.Clear()
		}
	})
}
