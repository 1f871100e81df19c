package httpserver_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/httpserver"
)

// start runs srv on an ephemeral port and returns once it listens.
func start(t *testing.T, ctx context.Context, h http.Handler, opts ...httpserver.Option) (*httpserver.Server, <-chan error) {
	t.Helper()

	listening := make(chan struct{})
	opts = append([]httpserver.Option{
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100 * time.Millisecond),
	}, opts...)
	opts = append(opts, httpserver.WithStartHook(func(*slog.Logger) { close(listening) }))
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case <-listening:
	case err := <-done:
		require.FailNow(t, "server exited before listening", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start")
	}
	return srv, done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not finish")
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, done := start(t, ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	resp, err := http.Get("http://" + srv.Addr().String() + "/api/product")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	cancel()
	wait(t, done)
	assert.NoError(t, srv.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestRun_ManualShutdownRunsStopHooks(t *testing.T) {
	t.Parallel()

	var stopped atomic.Bool
	srv, done := start(t, context.Background(), http.NewServeMux(),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
	)

	require.NoError(t, srv.Shutdown(context.Background()))
	wait(t, done)
	assert.True(t, stopped.Load())
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	t.Run("bind failure", func(t *testing.T) {
		t.Parallel()
		err := httpserver.New(httpserver.WithAddr(":invalid")).Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("already running", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		srv, done := start(t, ctx, nil)

		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

		cancel()
		wait(t, done)
	})
}

func TestOptions_AppliedToServer(t *testing.T) {
	t.Parallel()

	hs := &http.Server{ReadTimeout: 7 * time.Second}
	var hookLogger *slog.Logger
	srv, done := start(t, context.Background(), nil,
		httpserver.WithServer(hs),
		httpserver.WithWriteTimeout(2*time.Second),
		httpserver.WithIdleTimeout(3*time.Second),
		httpserver.WithReadTimeout(time.Second),
		httpserver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		httpserver.WithStartHook(func(l *slog.Logger) { hookLogger = l }),
	)

	assert.Equal(t, 7*time.Second, hs.ReadTimeout, "explicit server values win")
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.Equal(t, "127.0.0.1:0", hs.Addr)
	assert.NotNil(t, hs.Handler, "nil handler falls back to NotFound")
	assert.NotNil(t, hookLogger)

	require.NoError(t, srv.Shutdown(context.Background()))
	wait(t, done)
}

func TestOptions_PanicOnInvalidValues(t *testing.T) {
	t.Parallel()

	for name, fn := range map[string]func(){
		"empty addr":        func() { httpserver.WithAddr("") },
		"negative read":     func() { httpserver.WithReadTimeout(-time.Second) },
		"zero read header":  func() { httpserver.WithReadHeaderTimeout(0) },
		"negative shutdown": func() { httpserver.WithShutdownTimeout(-time.Second) },
		"nil server":        func() { httpserver.WithServer(nil) },
		"nil start hook":    func() { httpserver.WithStartHook(nil) },
	} {
		assert.Panics(t, fn, name)
	}
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	listening := make(chan struct{})
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:            "127.0.0.1:0",
		ShutdownTimeout: 50 * time.Millisecond,
	}, httpserver.WithStartHook(func(*slog.Logger) { close(listening) }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, httpserver.HealthHandler(nil))
	}()
	<-listening

	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	wait(t, done)
}
