package pidset

// ExitSource acquires waitable exit handles for live processes. The handle
// becomes ready exactly once, when the process it was opened against
// terminates. Handles are plain file descriptors on platforms that have
// them; Release returns the descriptor to the OS.
type ExitSource interface {
	Acquire(pid int) (int32, error)
	Release(fd int32) error
}

// Event is a single readiness notification delivered by a Multiplexer.
// Token carries the value supplied at Attach time.
type Event struct {
	Token int32
}

// Multiplexer blocks on many exit handles at once. Wait fills buf with the
// tokens of every handle that became ready and returns their count; it
// blocks indefinitely until at least one handle is ready. Detach is not
// idempotent: callers must detach at most once per successful Attach.
type Multiplexer interface {
	Attach(fd int32, token int32) error
	Detach(fd int32) error
	Wait(buf []Event) (int, error)
	Close() error
}
