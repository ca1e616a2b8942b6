package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chitchats/internal/testutils"
)

func TestHealthProbe_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"ok", http.StatusOK, true},
		{"no content", http.StatusNoContent, true},
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
		{"unavailable", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/health", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			probe := NewHealthProbe(server.URL+"/health", 2*time.Second, testutils.NewRecordingLogger())
			assert.Equal(t, tt.want, probe.Poll(context.Background()))
		})
	}
}

func TestHealthProbe_NoRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	probe := NewHealthProbe(server.URL, 2*time.Second, testutils.NewRecordingLogger())
	assert.False(t, probe.Poll(context.Background()))
	assert.EqualValues(t, 1, calls.Load())
}

func TestHealthProbe_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	probe := NewHealthProbe(server.URL, 100*time.Millisecond, testutils.NewRecordingLogger())

	start := time.Now()
	assert.False(t, probe.Poll(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHealthProbe_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	logger := testutils.NewRecordingLogger()
	probe := NewHealthProbe(url, time.Second, logger)

	assert.False(t, probe.Poll(context.Background()))
	_, logged := logger.Find("debug", "Health probe failed")
	assert.True(t, logged)
}

func TestHealthProbe_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := NewHealthProbe(server.URL, time.Second, testutils.NewRecordingLogger())
	assert.False(t, probe.Poll(ctx))
}
