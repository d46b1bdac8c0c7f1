//go:build linux
// +build linux

package pidset

import (
	"golang.org/x/sys/unix"
)

type pidfdSource struct{}

func (pidfdSource) Acquire(pid int) (int32, error) {
	// 0 stands for blocking mode
	fd, err := unix.PidfdOpen(pid, 0)
	if err != nil {
		return -1, err
	}
	return int32(fd), nil
}

func (pidfdSource) Release(fd int32) error {
	return unix.Close(int(fd))
}

type epollMux struct {
	epfd  int
	ready []unix.EpollEvent
}

func (m *epollMux) Attach(fd int32, token int32) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     token,
	}
	return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev)
}

func (m *epollMux) Detach(fd int32) error {
	return unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, int(fd), nil)
}

func (m *epollMux) Wait(buf []Event) (int, error) {
	if cap(m.ready) < len(buf) {
		m.ready = make([]unix.EpollEvent, len(buf))
	}
	for {
		// -1 stands for infinite await
		n, err := unix.EpollWait(m.epfd, m.ready[:len(buf)], -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		for i := 0; i < n; i++ {
			buf[i] = Event{Token: m.ready[i].Fd}
		}
		return n, nil
	}
}

func (m *epollMux) Close() error {
	return unix.Close(m.epfd)
}

func platformExitSource() ExitSource {
	return pidfdSource{}
}

func platformMultiplexer() (Multiplexer, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &epollMux{epfd: epfd}, nil
}
