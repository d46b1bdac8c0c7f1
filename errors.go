package pidset

import "fmt"

// MultiplexerCreateError reports a failure to create the multiplexer
// instance. Nothing was registered when it occurred.
type MultiplexerCreateError struct {
	Err error
}

func (e *MultiplexerCreateError) Error() string {
	return fmt.Sprintf("creating multiplexer: %v", e.Err)
}

func (e *MultiplexerCreateError) Unwrap() error { return e.Err }

// PidLookupError reports that no waitable handle could be obtained for a
// pid: the process already exited, never existed, or is not accessible.
type PidLookupError struct {
	Pid int
	Err error
}

func (e *PidLookupError) Error() string {
	return fmt.Sprintf("acquiring exit handle for pid %d: %v", e.Pid, e.Err)
}

func (e *PidLookupError) Unwrap() error { return e.Err }

// AttachError reports a failure to register an exit handle with the
// multiplexer.
type AttachError struct {
	Pid int
	Err error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("attaching exit handle for pid %d: %v", e.Pid, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// DetachError reports a failure to deregister an exit handle. The monitor
// treats it as non-fatal: the pid is removed from the tracked set anyway,
// since the handle is discarded either way.
type DetachError struct {
	Pid int
	Err error
}

func (e *DetachError) Error() string {
	return fmt.Sprintf("detaching exit handle for pid %d: %v", e.Pid, e.Err)
}

func (e *DetachError) Unwrap() error { return e.Err }

// UnknownTokenError reports a readiness token that matches no tracked pid.
// It means the token-uniqueness bookkeeping was corrupted and the wait
// call cannot continue.
type UnknownTokenError struct {
	Token int32
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("no tracked pid for readiness token %d", e.Token)
}

// MultiplexerWaitError reports a failure of the blocking wait itself.
type MultiplexerWaitError struct {
	Err error
}

func (e *MultiplexerWaitError) Error() string {
	return fmt.Sprintf("waiting on multiplexer: %v", e.Err)
}

func (e *MultiplexerWaitError) Unwrap() error { return e.Err }

// MultiplexerCloseError reports a failure to release the multiplexer.
type MultiplexerCloseError struct {
	Err error
}

func (e *MultiplexerCloseError) Error() string {
	return fmt.Sprintf("closing multiplexer: %v", e.Err)
}

func (e *MultiplexerCloseError) Unwrap() error { return e.Err }
