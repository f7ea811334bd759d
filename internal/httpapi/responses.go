// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// detailResponse is the error body shape used by every failing
// endpoint. Clients branch on the HTTP status and show Detail as-is.
type detailResponse struct {
	Detail string `json:"detail"`
}

type authResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type profileResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type helloResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, detailResponse{Detail: detail})
}
