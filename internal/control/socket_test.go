// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHandleHealth_ReturnsCorrectJSON(t *testing.T) {
	s := NewServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", contentType, "application/json")
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if health.Status != "healthy" {
		t.Errorf("status = %q, want %q", health.Status, "healthy")
	}

	if _, err := time.Parse(time.RFC3339, health.Timestamp); err != nil {
		t.Errorf("timestamp %q is not valid RFC3339: %v", health.Timestamp, err)
	}
}

func TestHandleStatus_ReturnsRequiredFields(t *testing.T) {
	s := NewServer(nil, func() Stats {
		return Stats{Members: 3, Messages: 42}
	})
	// Wait a tiny bit to ensure uptime >= 0
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	s.handleStatus(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !status.Running {
		t.Error("expected running = true")
	}
	if status.PID != os.Getpid() {
		t.Errorf("pid = %d, want %d", status.PID, os.Getpid())
	}
	if status.UptimeSeconds < 0 {
		t.Errorf("uptime = %d, want >= 0", status.UptimeSeconds)
	}
	if status.Members != 3 {
		t.Errorf("members = %d, want 3", status.Members)
	}
	if status.Messages != 42 {
		t.Errorf("messages = %d, want 42", status.Messages)
	}
}

func TestHandleStatus_NilStatsFunc(t *testing.T) {
	s := NewServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	s.handleStatus(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if status.Members != 0 || status.Messages != 0 {
		t.Errorf("expected zero counts without a stats func, got %+v", status)
	}
}

func TestHandleShutdown_TriggersCallback(t *testing.T) {
	var called atomic.Bool
	done := make(chan struct{})

	s := NewServer(func() {
		called.Store(true)
		close(done)
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	w := httptest.NewRecorder()

	s.handleShutdown(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var shutdown ShutdownResponse
	if err := json.NewDecoder(resp.Body).Decode(&shutdown); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if shutdown.Message != "shutdown initiated" {
		t.Errorf("message = %q, want %q", shutdown.Message, "shutdown initiated")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown callback was not invoked")
	}
	if !called.Load() {
		t.Error("expected shutdown callback to run")
	}
}

func TestSocketPath(t *testing.T) {
	path := SocketPath()

	if !strings.HasSuffix(path, "memberchat.sock") {
		t.Errorf("socket path %q should end with memberchat.sock", path)
	}
}
