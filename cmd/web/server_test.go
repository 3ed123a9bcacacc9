package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reviews-web/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Port: "4100"},
		API: config.APIConfig{TimeoutSeconds: 5},
	}

	srv := newHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":4100", srv.Addr)
	assert.Equal(t, 35*time.Second, srv.WriteTimeout)
	assert.Equal(t, readTimeout, srv.ReadTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}
