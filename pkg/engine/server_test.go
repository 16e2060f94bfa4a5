package engine

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockconf/pkg/config"
)

func TestServer_StartStop(t *testing.T) {
	cfg := config.DefaultServerConfiguration()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	srv := NewServer(cfg, testConfig())
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	assert.True(t, srv.IsRunning())
	assert.Error(t, srv.Start(), "already running")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/api/posts/1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get("http://" + srv.Addr() + HealthPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
	assert.False(t, srv.IsRunning())
	assert.Empty(t, srv.Addr())
	assert.Zero(t, srv.Uptime())
	assert.NoError(t, srv.Stop(), "stopping twice is a no-op")
}

func TestServer_NilConfiguration(t *testing.T) {
	srv := NewServer(nil, testConfig())
	assert.NotNil(t, srv.Handler())
	assert.False(t, srv.IsRunning())
}
