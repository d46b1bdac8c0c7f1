// Command pidwait is a demo front end for the pid-set monitor: it attaches
// to existing pids or spawns a batch of sleep processes and blocks until
// the requested number of them exit.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pidset "github.com/rogercoll/pid-set"
	"github.com/rogercoll/pid-set/internal/logging"
	"github.com/rogercoll/pid-set/supervise"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "pidwait",
		Short:         "Wait for process exits via pidfd and epoll",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newWatchCmd(&logLevel))
	root.AddCommand(newDemoCmd(&logLevel))
	return root
}

func newWatchCmd(logLevel *string) *cobra.Command {
	var waitFor int

	cmd := &cobra.Command{
		Use:   "watch <pid>...",
		Short: "Block until the given processes exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(*logLevel)
			defer logger.Sync()

			pids := make([]int, 0, len(args))
			for _, arg := range args {
				pid, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid pid %q: %w", arg, err)
				}
				pids = append(pids, pid)
			}

			for _, pid := range pids {
				name := "?"
				if proc, err := process.NewProcess(int32(pid)); err == nil {
					if n, err := proc.Name(); err == nil {
						name = n
					}
				}
				logger.Info("watching process", zap.Int("pid", pid), zap.String("name", name))
			}

			set := pidset.New(pids...)
			defer set.Close()

			n := waitFor
			if n <= 0 {
				n = set.Len()
			}
			start := time.Now()
			observed, err := set.WaitN(n)
			if err != nil {
				return err
			}
			logger.Info("done waiting",
				zap.Int("exits", observed),
				zap.Duration("elapsed", time.Since(start)),
				zap.Ints("still_tracked", set.Pids()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&waitFor, "num", "n", 0, "Number of exits to wait for (default: all)")
	return cmd
}

func newDemoCmd(logLevel *string) *cobra.Command {
	var (
		count    int
		sleepFor time.Duration
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Spawn sleeping processes and wait for them to exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(*logLevel)
			defer logger.Sync()

			secs := strconv.FormatFloat(sleepFor.Seconds(), 'f', -1, 64)
			cmds := make([]*exec.Cmd, count)
			for i := range cmds {
				cmds[i] = exec.Command("sleep", secs)
			}

			sup, err := supervise.NewCommandSet(cmds...).Spawn()
			if err != nil {
				return err
			}
			defer sup.Terminate()
			logger.Info("spawned sleepers", zap.Ints("pids", sup.Pids()), zap.Duration("sleep", sleepFor))

			start := time.Now()
			if all {
				err = sup.WaitAll()
			} else {
				err = sup.WaitOne()
			}
			if err != nil {
				return err
			}
			logger.Info("done waiting",
				zap.Bool("all", all),
				zap.Duration("elapsed", time.Since(start)),
				zap.Ints("still_tracked", sup.Pids()))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 5, "Number of sleep processes to spawn")
	cmd.Flags().DurationVar(&sleepFor, "sleep", 30*time.Second, "How long each process sleeps")
	cmd.Flags().BoolVar(&all, "all", false, "Wait for every process instead of the first exit")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
