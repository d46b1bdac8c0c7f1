//go:build !linux
// +build !linux

package pidset

import "errors"

var errUnsupported = errors.New("pid-set needs pidfd and epoll, which this platform does not provide")

type unsupportedSource struct{}

func (unsupportedSource) Acquire(pid int) (int32, error) {
	return -1, errUnsupported
}

func (unsupportedSource) Release(fd int32) error {
	return errUnsupported
}

func platformExitSource() ExitSource {
	return unsupportedSource{}
}

func platformMultiplexer() (Multiplexer, error) {
	return nil, errUnsupported
}
