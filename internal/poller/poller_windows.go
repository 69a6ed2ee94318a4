//go:build windows

package poller

import (
	"time"

	"golang.org/x/sys/windows"
)

type wsaPoller struct{}

func newPoller() Poller { return wsaPoller{} }

func (wsaPoller) Wait(fds []uintptr, timeout time.Duration) ([]uintptr, error) {
	pollfds := make([]windows.WSAPollFd, len(fds))
	for i, fd := range fds {
		pollfds[i] = windows.WSAPollFd{Fd: windows.Handle(fd), Events: windows.POLLRDNORM}
	}

	ms := int32(-1)
	if timeout > 0 {
		ms = int32(timeout.Milliseconds())
	}

	_, err := windows.WSAPoll(pollfds, ms)
	if err != nil {
		return nil, err
	}

	ready := make([]uintptr, 0, len(pollfds))
	for _, pfd := range pollfds {
		if pfd.Revents&(windows.POLLRDNORM|windows.POLLHUP|windows.POLLERR) != 0 {
			ready = append(ready, uintptr(pfd.Fd))
		}
	}
	return ready, nil
}
