// Package supervise spawns a batch of commands and monitors their exits
// through a pid set. It models the two lifecycle states as two types: a
// CommandSet is configured but not running, a Supervisor is running and
// monitorable. The one-way Spawn transition connects them, so waiting on
// commands that were never started is not expressible.
package supervise

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	pidset "github.com/rogercoll/pid-set"
)

// CommandSet holds commands that have not been started yet.
type CommandSet struct {
	cmds    []*exec.Cmd
	spawned bool
}

// NewCommandSet builds a CommandSet over commands constructed with
// exec.Command. The commands must not have been started.
func NewCommandSet(cmds ...*exec.Cmd) *CommandSet {
	return &CommandSet{cmds: cmds}
}

// Spawn starts every command and returns a Supervisor monitoring the
// resulting pids. If any start fails, the commands already started are
// killed and reaped before the error is returned. A CommandSet can spawn
// at most once; exec.Cmd values are not restartable.
func (c *CommandSet) Spawn() (*Supervisor, error) {
	if c.spawned {
		return nil, errors.New("command set already spawned")
	}
	c.spawned = true

	started := make([]*exec.Cmd, 0, len(c.cmds))
	for _, cmd := range c.cmds {
		if err := cmd.Start(); err != nil {
			for _, running := range started {
				_ = running.Process.Kill()
				_ = running.Wait()
			}
			return nil, fmt.Errorf("starting %s: %w", cmd.Path, err)
		}
		started = append(started, cmd)
	}

	pids := make([]int, len(started))
	for i, cmd := range started {
		pids[i] = cmd.Process.Pid
	}
	return &Supervisor{cmds: started, set: pidset.New(pids...)}, nil
}

// Supervisor owns a batch of running commands and the pid set watching
// them. Like the pid set itself it is not safe for concurrent use.
type Supervisor struct {
	cmds []*exec.Cmd
	set  *pidset.PidSet
}

// Pids returns the pids whose exit has not been observed yet.
func (s *Supervisor) Pids() []int {
	return s.set.Pids()
}

// WaitOne blocks until at least one spawned command has exited.
func (s *Supervisor) WaitOne() error {
	return s.set.WaitAny()
}

// WaitAll blocks until every spawned command has exited.
func (s *Supervisor) WaitAll() error {
	return s.set.WaitAll()
}

// Signal delivers sig to every spawned command that can still receive it.
// Commands that already exited are skipped.
func (s *Supervisor) Signal(sig os.Signal) error {
	var first error
	for _, cmd := range s.cmds {
		if cmd.ProcessState != nil {
			continue
		}
		if err := cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) && first == nil {
			first = fmt.Errorf("signaling %s (pid %d): %w", cmd.Path, cmd.Process.Pid, err)
		}
	}
	return first
}

// Terminate kills every spawned command that is still running and reaps
// all of them, then releases the monitoring resources.
func (s *Supervisor) Terminate() error {
	for _, cmd := range s.cmds {
		if cmd.ProcessState != nil {
			continue
		}
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	return s.Close()
}

// Close releases the monitoring resources. The commands keep running;
// callers still own their reaping unless Terminate was used.
func (s *Supervisor) Close() error {
	return s.set.Close()
}
