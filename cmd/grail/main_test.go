package main

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/grail/internal/testutil"
)

// Environment and working directory of the host must not leak into tests
func noEnv(string) string { return "" }

func emptyWd(t *testing.T) func() (string, error) {
	dir := t.TempDir()
	return func() (string, error) { return dir, nil }
}

func Test_run(t *testing.T) {
	port, err := testutil.RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	listenAddr := fmt.Sprintf("localhost:%d", port)

	t.Run("stop with signal in memory", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noEnv, emptyWd(t), []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--environment", "dev",
		})

		require.NoError(t, err, "on correct stop should not return error")
	})

	t.Run("invalid wallet id", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noEnv, emptyWd(t), []string{
			"--address", listenAddr,
			"--wallet-id", "not-uuid",
		})

		require.Error(t, err, "app must not start with invalid wallet id")
	})

	t.Run("stop with srv error", func(t *testing.T) {
		// Occupy the port, so server fails to listen
		ln, err := net.Listen("tcp", listenAddr)
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err = run(ctx, noEnv, emptyWd(t), []string{
			"--address", listenAddr,
		})

		require.Error(t, err, "on incorrect stop should return error")
	})

	t.Run("stop with signal postgres", func(t *testing.T) {
		pg := testutil.StartPostgresContainer(t)
		t.Cleanup(pg.Terminate)

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noEnv, emptyWd(t), []string{
			"--address", listenAddr,
			"--database", pg.DSN,
		})

		require.NoError(t, err, "on correct stop should not return error")
	})
}
