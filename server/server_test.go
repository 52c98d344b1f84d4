package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safartravel/safar/plugin/llm/llmtest"
	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/server/metrics"
	v1 "github.com/safartravel/safar/server/router/api/v1"
	"github.com/safartravel/safar/server/session"
	"github.com/safartravel/safar/store"
	"github.com/safartravel/safar/store/db/memory"
)

func newTestServer(t *testing.T, addr string) (*Server, *metrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	registry, err := agent.NewRegistry(nil)
	require.NoError(t, err)
	cfg := session.AgentConfig{Model: llmtest.NewScriptedModel(), Registry: registry, Observer: m}
	api := v1.NewAPIV1Service(session.NewManager(cfg.NewAgent, m), booking.NewService(store.New(memory.NewDB())), "", "", nil)
	return NewServer(addr, api, reg, nil), m
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "safar_active_sessions 1")
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s, _ := newTestServer(t, addr)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
