package pidset

// PidSet monitors the termination of a set of processes without polling.
// Each pid is converted into an OS-level exit handle and every handle is
// registered with a single multiplexer, so one blocking call observes any
// number of exits.
//
// A PidSet is not safe for concurrent use: the tracked set is mutated in
// the middle of every wait. Callers that need to share one must serialize
// WaitN/WaitAny/WaitAll/Close externally.
//
// Pids that the OS recycles while they are being monitored are not
// handled; the caller must guarantee the pids stay bound to the intended
// process instances for the monitoring window.
type PidSet struct {
	// tracked maps pid to its exit handle. A pid is present iff its exit
	// has not been observed yet. Before initialization every value is -1.
	tracked map[int]int32

	source ExitSource
	newMux func() (Multiplexer, error)

	// mux is nil until the first wait (or an explicit Init) and is the
	// single multiplexer shared by every registered handle.
	mux Multiplexer
}

// New builds a PidSet over the given pids using the platform backend. It
// performs no syscalls; handles are acquired lazily on the first wait.
// Duplicate pids collapse to a single tracked entry.
func New(pids ...int) *PidSet {
	return NewWithBackend(platformExitSource(), platformMultiplexer, pids...)
}

// NewWithBackend builds a PidSet over a caller-supplied exit-handle source
// and multiplexer constructor. It exists so alternative backends (and
// tests) can reuse the monitoring protocol unchanged.
func NewWithBackend(source ExitSource, newMux func() (Multiplexer, error), pids ...int) *PidSet {
	tracked := make(map[int]int32, len(pids))
	for _, pid := range pids {
		tracked[pid] = -1
	}
	return &PidSet{tracked: tracked, source: source, newMux: newMux}
}

// Init eagerly allocates the multiplexer and registers every tracked pid
// with it, using each pid as its own readiness token. Waiting performs the
// same initialization lazily, so calling Init is optional; it is useful to
// surface registration errors before the first blocking call.
//
// On any failure the handles attached so far are detached and released and
// the multiplexer is closed, so a failed Init leaves no OS state behind
// and the PidSet can be closed or retried.
func (s *PidSet) Init() error {
	if s.mux != nil {
		return nil
	}
	mux, err := s.newMux()
	if err != nil {
		return &MultiplexerCreateError{Err: err}
	}
	attached := make([]int, 0, len(s.tracked))
	rollback := func() {
		for _, pid := range attached {
			fd := s.tracked[pid]
			_ = mux.Detach(fd)
			_ = s.source.Release(fd)
			s.tracked[pid] = -1
		}
		_ = mux.Close()
	}
	for pid := range s.tracked {
		fd, err := s.source.Acquire(pid)
		if err != nil {
			rollback()
			return &PidLookupError{Pid: pid, Err: err}
		}
		if err := mux.Attach(fd, int32(pid)); err != nil {
			_ = s.source.Release(fd)
			rollback()
			return &AttachError{Pid: pid, Err: err}
		}
		s.tracked[pid] = fd
		attached = append(attached, pid)
	}
	s.mux = mux
	return nil
}

// wait blocks until at least n distinct tracked processes have exited.
// Every event of a multiplexer batch is drained even once n is reached,
// so the returned count may exceed n; leaving ready events unconsumed
// would strand their registrations. Each observed pid is detached,
// released and removed from the tracked set before the call returns.
//
// A detach failure does not abort the drain: the removal proceeds and the
// first such error is reported alongside the final count. Entries drained
// before any error remain removed.
func (s *PidSet) wait(n int) (int, error) {
	if n > len(s.tracked) {
		n = len(s.tracked)
	}
	if n <= 0 {
		return 0, nil
	}
	if err := s.Init(); err != nil {
		return 0, err
	}
	var detachErr error
	buf := make([]Event, len(s.tracked))
	total := 0
	for total < n {
		count, err := s.mux.Wait(buf)
		if err != nil {
			return total, &MultiplexerWaitError{Err: err}
		}
		for _, ev := range buf[:count] {
			pid := int(ev.Token)
			fd, ok := s.tracked[pid]
			if !ok {
				return total, &UnknownTokenError{Token: ev.Token}
			}
			if err := s.mux.Detach(fd); err != nil && detachErr == nil {
				detachErr = &DetachError{Pid: pid, Err: err}
			}
			_ = s.source.Release(fd)
			delete(s.tracked, pid)
			total++
		}
	}
	return total, detachErr
}

// WaitN blocks until n distinct tracked processes have exited and returns
// the number of exits observed, which may exceed n when a single batch
// delivers more. n larger than the tracked set is clamped to it, so WaitN
// never blocks on exits that cannot arrive; n <= 0 returns immediately.
func (s *PidSet) WaitN(n int) (int, error) {
	return s.wait(n)
}

// WaitAny blocks until at least one tracked process has exited.
func (s *PidSet) WaitAny() error {
	_, err := s.wait(1)
	return err
}

// WaitAll blocks until every tracked process has exited. On an empty set
// it returns immediately without touching the multiplexer.
func (s *PidSet) WaitAll() error {
	_, err := s.wait(len(s.tracked))
	return err
}

// Len reports how many pids are still being tracked.
func (s *PidSet) Len() int {
	return len(s.tracked)
}

// Pids returns the pids whose exit has not been observed yet.
func (s *PidSet) Pids() []int {
	pids := make([]int, 0, len(s.tracked))
	for pid := range s.tracked {
		pids = append(pids, pid)
	}
	return pids
}

// Close releases the multiplexer and the remaining exit handles. A PidSet
// that was never initialized closes without any syscalls. Close is
// idempotent, but no other method may be called after it.
func (s *PidSet) Close() error {
	if s.mux == nil {
		s.tracked = nil
		return nil
	}
	for pid, fd := range s.tracked {
		_ = s.source.Release(fd)
		delete(s.tracked, pid)
	}
	mux := s.mux
	s.mux = nil
	s.tracked = nil
	if err := mux.Close(); err != nil {
		return &MultiplexerCloseError{Err: err}
	}
	return nil
}
