// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package main

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberchat/memberchat/internal/control"
)

// startFakeControlSocket serves control responses on a Unix socket in a
// temp directory and returns the socket path.
func startFakeControlSocket(t *testing.T, status control.StatusResponse) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "memberchat.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(control.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(func() { _ = srv.Close() })

	return socketPath
}

func TestQueryStatus(t *testing.T) {
	t.Run("reports running server with counts", func(t *testing.T) {
		socketPath := startFakeControlSocket(t, control.StatusResponse{
			Running:       true,
			PID:           4242,
			UptimeSeconds: 90,
			Members:       3,
			Messages:      17,
		})

		status := queryStatus(socketPath)

		assert.True(t, status.Running)
		assert.Equal(t, "healthy", status.Health)
		assert.Equal(t, 4242, status.PID)
		assert.Equal(t, int64(90), status.UptimeSeconds)
		assert.Equal(t, 3, status.Members)
		assert.Equal(t, 17, status.Messages)
		assert.Empty(t, status.Error)
	})

	t.Run("reports missing socket", func(t *testing.T) {
		status := queryStatus(filepath.Join(t.TempDir(), "nope.sock"))

		assert.False(t, status.Running)
		assert.Equal(t, "socket not found", status.Error)
	})

	t.Run("reports connection failure for dead socket", func(t *testing.T) {
		socketPath := filepath.Join(t.TempDir(), "dead.sock")

		listener, err := net.Listen("unix", socketPath)
		require.NoError(t, err)
		require.NoError(t, listener.Close())
		// Recreate the file so Stat succeeds but nothing is listening
		if _, statErr := os.Stat(socketPath); os.IsNotExist(statErr) {
			f, createErr := os.Create(socketPath)
			require.NoError(t, createErr)
			require.NoError(t, f.Close())
		}

		status := queryStatus(socketPath)

		assert.False(t, status.Running)
		assert.NotEmpty(t, status.Error)
	})
}

func TestFormatStatusTable(t *testing.T) {
	t.Run("running server", func(t *testing.T) {
		out := formatStatusTable(ServerStatus{
			Running:       true,
			Health:        "healthy",
			PID:           100,
			UptimeSeconds: 3700,
			Members:       2,
			Messages:      5,
		})

		assert.Contains(t, out, "running")
		assert.Contains(t, out, "healthy")
		assert.Contains(t, out, "1h 1m")
		assert.Contains(t, out, "MEMBERS")
	})

	t.Run("stopped server shows reason", func(t *testing.T) {
		out := formatStatusTable(ServerStatus{Error: "socket not found"})

		assert.Contains(t, out, "stopped")
		assert.Contains(t, out, "socket not found")
	})
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{5, "5s"},
		{59, "59s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3600, "1h 0m"},
		{7320, "2h 2m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestRunStatus_JSONOutput(t *testing.T) {
	// No server is running at the real socket path in tests, so the
	// command reports a stopped server either way.
	cmd := newStatusCmd()
	require.NoError(t, cmd.Flags().Set("json", "true"))

	var out testWriter
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.RunE(cmd, nil))

	var status ServerStatus
	require.NoError(t, json.Unmarshal(out.data, &status))
}

type testWriter struct {
	data []byte
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
