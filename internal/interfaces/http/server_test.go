package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/config"
)

func TestNewServer(t *testing.T) {
	cfg := config.Default().Server
	cfg.Host, cfg.Port = "127.0.0.1", 9123
	s := NewServer(cfg, http.NewServeMux(), nil)

	assert.Equal(t, "127.0.0.1:9123", s.Addr())
	assert.Equal(t, cfg.ReadTimeout, s.srv.ReadTimeout)
	assert.Equal(t, cfg.WriteTimeout, s.srv.WriteTimeout)
}

func TestServer_ServeAndStop(t *testing.T) {
	f := newFixture(t, nil)
	s := NewServer(config.Default().Server, f.router, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := NewServer(config.Default().Server, http.NewServeMux(), nil)
	assert.NoError(t, s.Stop(context.Background()))
}

//Personal.AI order the ending
