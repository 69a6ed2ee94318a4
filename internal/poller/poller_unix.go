//go:build unix && !linux

package poller

import (
	"time"

	"golang.org/x/sys/unix"
)

// selectPoller is named for the original's selection primitive but is
// implemented on top of poll(2): x/sys/unix exposes Poll uniformly across
// non-Linux unix targets, whereas the FdSet layout behind select(2) varies
// per platform and isn't worth hand-rolling bit math for.
type selectPoller struct{}

func newPoller() Poller { return selectPoller{} }

func (selectPoller) Wait(fds []uintptr, timeout time.Duration) ([]uintptr, error) {
	pollfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pollfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	ms := -1
	if timeout > 0 {
		ms = int(timeout.Milliseconds())
	}

	_, err := unix.Poll(pollfds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	ready := make([]uintptr, 0, len(pollfds))
	for _, pfd := range pollfds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			ready = append(ready, uintptr(pfd.Fd))
		}
	}
	return ready, nil
}
