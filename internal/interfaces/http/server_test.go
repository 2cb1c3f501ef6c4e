package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcar-cl/tasador/internal/config"
)

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(config.ServerConfig{
		Port:         0, // ephemeral
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, http.NewServeMux(), nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
