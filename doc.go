// Package pidset monitors the termination of arbitrary processes by pid
// without polling.
//
// On Linux every pid is turned into a pidfd, a file descriptor that
// becomes readable when its process exits, and all pidfds are registered
// with one epoll instance. A single blocking call then observes any number
// of exits, each delivered exactly once.
//
//	set := pidset.New(1234, 5678, 9871)
//	if err := set.WaitAny(); err != nil {
//		// handle it
//	}
//	if err := set.Close(); err != nil {
//		// handle it
//	}
//
// The exit-handle source and the multiplexer are capability interfaces, so
// platforms without pidfd/epoll can plug in another backend through
// NewWithBackend without changing the monitoring protocol.
//
// The supervise subpackage layers a spawn-then-monitor front end on top
// for processes started by the caller itself.
package pidset
