//go:build linux

package poller

import (
	"time"

	"golang.org/x/sys/unix"
)

type epollPoller struct{}

func newPoller() Poller { return epollPoller{} }

func (epollPoller) Wait(fds []uintptr, timeout time.Duration) ([]uintptr, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	defer unix.Close(epfd)

	for _, fd := range fds {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
			return nil, err
		}
	}

	ms := -1
	if timeout > 0 {
		ms = int(timeout.Milliseconds())
	}

	events := make([]unix.EpollEvent, len(fds))
	n, err := unix.EpollWait(epfd, events, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	ready := make([]uintptr, 0, n)
	for i := 0; i < n; i++ {
		ready = append(ready, uintptr(events[i].Fd))
	}
	return ready, nil
}
