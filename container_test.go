//go:build linux
// +build linux

package pidset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
)

func init() {
	// Disable Ryuk (reaper) to avoid relying on the Docker "bridge" network
	// which is absent in rootless Podman (default network is "podman").
	// Containers are still removed via Terminate().
	_ = os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
}

func execGetLog(ctx context.Context, t *testing.T, container testcontainers.Container, cmd []string, options ...tcexec.ProcessOption) (string, error) {
	t.Logf("will run: %s", cmd)
	exitCode, r, err := container.Exec(ctx, cmd, options...)
	if err != nil {
		return "", fmt.Errorf("failed to exec: %w", err)
	}
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	_, err = stdcopy.StdCopy(&stdout, &stderr, r)
	if err != nil {
		t.Fatalf("failed to demultiplex output: %v", err)
	}
	if exitCode != 0 {
		return "", fmt.Errorf("got non-zero exit code %d\nstdout: %s\nstderr: %s", exitCode, stdout.String(), stderr.String())
	}
	return stdout.String(), nil
}

// TestMonitorContainerInit watches the host-side pid of a container's init
// process, kills the process from inside the container and checks that the
// monitor wakes up promptly.
func TestMonitorContainerInit(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a container runtime")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the trailing true keeps sh from exec-ing sleep, so sleep stays a
	// killable child instead of becoming the namespace's pid 1
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "alpine:3.20",
			Cmd:   []string{"/bin/sh", "-c", "sleep 300; true"},
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to run container: %v", err)
	}
	defer container.Terminate(ctx)

	state, err := container.State(ctx)
	if err != nil {
		t.Fatalf("failed to inspect container: %v", err)
	}
	t.Logf("will wait for host pid: %d", state.Pid)

	set := New(state.Pid)
	defer set.Close()
	if err := set.Init(); err != nil {
		t.Fatalf("failed to register container pid: %v", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- set.WaitAny()
	}()

	killTime := time.Now()
	if _, err := execGetLog(ctx, t, container, []string{"sh", "-c", "kill $(pidof sleep)"}); err != nil {
		t.Fatalf("failed to kill sleep inside container: %v", err)
	}

	select {
	case err := <-exited:
		if err != nil {
			t.Fatalf("WaitAny failed: %v", err)
		}
		killTimeDiff := time.Since(killTime)
		t.Logf("kill time diff: %v", killTimeDiff)
		if killTimeDiff > 10*time.Second {
			t.Fatalf("kill time diff is too big: %v", killTimeDiff)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("timeout waiting for the container's init process to exit")
	}
}
