//go:build unix

package beacon

import "golang.org/x/sys/unix"

// unixBeacon is a self-pipe: signal writes one byte, reset drains whatever
// has accumulated, fd exposes the read end.
type unixBeacon struct {
	r, w int
}

func newBeaconImpl() (beaconImpl, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	return &unixBeacon{r: fds[0], w: fds[1]}, nil
}

func (b *unixBeacon) fd() uintptr { return uintptr(b.r) }

func (b *unixBeacon) signal() {
	var buf [1]byte
	for {
		_, err := unix.Write(b.w, buf[:])
		if err != unix.EINTR {
			return
		}
	}
}

func (b *unixBeacon) reset() {
	var buf [64]byte
	for {
		n, err := unix.Read(b.r, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (b *unixBeacon) close() error {
	err1 := unix.Close(b.r)
	err2 := unix.Close(b.w)
	if err1 != nil {
		return err1
	}
	return err2
}
