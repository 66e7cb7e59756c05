package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/moviecat/internal/catalog"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) Sweep(context.Context) (catalog.SweepResult, error) {
	s.calls.Add(1)
	return catalog.SweepResult{Memory: 1}, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestRunner_ServesAndStops(t *testing.T) {
	runner := NewRunner(okHandler(), nil, Config{}, nil)
	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Serve(ctx, ln) }()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ = io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_Sweeps(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("disk full")}
	runner := NewRunner(okHandler(), sweeper, Config{SweepInterval: 10 * time.Millisecond}, nil)

	ln := listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Serve(ctx, ln) }()

	// Sweep errors are logged, not fatal.
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRunner_ListenError(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	runner := NewRunner(okHandler(), nil, Config{Addr: ln.Addr().String()}, nil)
	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

func TestNewRunner_Defaults(t *testing.T) {
	runner := NewRunner(okHandler(), nil, Config{}, nil)
	require.NotNil(t, runner.logger)
	assert.Equal(t, 30*time.Second, runner.config.ShutdownTimeout)
}
