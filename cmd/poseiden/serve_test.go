// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poseiden Contributors

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseiden/backoffice/internal/config"
	"github.com/poseiden/backoffice/internal/observability"
	"github.com/poseiden/backoffice/internal/web"
	"github.com/poseiden/backoffice/pkg/errutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMonitorServerErrors_CancelsOnError(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	listenerErr := errors.New("listener died")
	errCh := make(chan error, 1)
	errCh <- listenerErr

	monitorServerErrors(ctx, cancel, errCh, "web")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	err := serveResult(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, listenerErr)
	errutil.AssertErrorCode(t, err, "SERVE_FAILED")
	errutil.AssertErrorContext(t, err, "server", "web")
}

func TestMonitorServerErrors_ClosedChannelKeepsRunning(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	errCh := make(chan error)
	close(errCh)

	monitorServerErrors(ctx, cancel, errCh, "web")
	assert.NoError(t, ctx.Err())
}

func TestMonitorServerErrors_ReturnsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(nil)

	done := make(chan struct{})
	go func() {
		monitorServerErrors(ctx, cancel, make(chan error), "web")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitorServerErrors did not return after cancellation")
	}
}

func TestServeResult_ParentCancellationIsClean(t *testing.T) {
	parent, stop := context.WithCancel(context.Background())
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	stop()
	<-ctx.Done()
	assert.NoError(t, serveResult(ctx))

	deadline, expire := context.WithTimeout(context.Background(), time.Nanosecond)
	defer expire()
	<-deadline.Done()
	assert.NoError(t, serveResult(deadline))
}

func TestNewServices_MemoryBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage = config.StorageMemory

	b, err := openBackend(context.Background(), &cfg)
	require.NoError(t, err)
	defer b.close()
	assert.NoError(t, b.ready(context.Background()))

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svcs, err := newServices(b, metrics, time.Hour, discardLogger())
	require.NoError(t, err)

	_, err = web.NewServer(svcs.webOptions(&cfg, metrics, discardLogger()))
	require.NoError(t, err)
}

func TestOpenBackend_PostgresRequiresURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.URL = ""

	_, err := openBackend(context.Background(), &cfg)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestServe_MemoryStorage(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage = config.StorageMemory
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Metrics.Addr = ""
	cfg.Static.Dir = ""

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, &cfg, serveOptions{
			logger:  discardLogger(),
			started: func(addr string) { addrCh <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	client := &http.Client{
		Timeout: 2 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get("http://" + addr + "/login")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get("http://" + addr + "/bidList/list")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := runRoot(t, "serve", "--storage", "postgres")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	errutil.AssertErrorContext(t, err, "key", "database.url")
}

func TestBackendReady_ReportsUnreachableStorage(t *testing.T) {
	b := memoryBackend()
	b.ping = func(context.Context) error { return errors.New("connection refused") }

	err := b.ready(context.Background())

	errutil.AssertErrorCode(t, err, "STORAGE_UNREACHABLE")
	assert.ErrorContains(t, err, "connection refused")
}
