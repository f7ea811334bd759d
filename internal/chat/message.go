// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

// Package chat provides the bounded in-memory group chat log.
package chat

import "time"

// MaxTextLength bounds message text after trimming. Enforced by the
// HTTP handlers, not by the log.
const MaxTextLength = 1000

// Message is a single chat entry. Messages are immutable once
// appended; IDs are process-lifetime unique and strictly increasing,
// starting at 1, and are never reused even after eviction.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
