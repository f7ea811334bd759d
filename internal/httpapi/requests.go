// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package httpapi

import (
	"encoding/json"
	"net/http"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type postMessageRequest struct {
	Text string `json:"text"`
}

// decodeJSON reads the request body into v. A body that is not valid
// JSON for v gets the generic malformed-body response so callers can
// bail out immediately.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
