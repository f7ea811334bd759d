// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package chat

import (
	"sync"
	"time"
)

// Defaults for the log's retention cap and the list endpoint's window.
const (
	DefaultCapacity    = 1000
	DefaultRecentLimit = 100
)

// Log is an append-only, bounded, in-memory message sequence. Appends
// assign IDs from a process-wide counter that never resets; once the
// stored count exceeds the capacity the oldest entries are evicted in
// one bulk trim. All methods are safe for concurrent use.
//
// The log does not validate message text; callers must trim and
// bound it before appending.
type Log struct {
	mu       sync.Mutex
	capacity int
	lastID   int64
	messages []Message
	now      func() time.Time
}

// NewLog creates a Log holding at most capacity messages. A
// non-positive capacity falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	return NewLogWithClock(capacity, time.Now)
}

// NewLogWithClock creates a Log with an injectable clock for
// deterministic timestamps in tests.
func NewLogWithClock(capacity int, now func() time.Time) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Log{
		capacity: capacity,
		now:      now,
	}
}

// Append stores a new message attributed to username and returns it.
// The ID assignment, insert, and eviction happen in one critical
// section, so concurrent appends cannot produce duplicate IDs or a
// torn trim.
func (l *Log) Append(username, text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	msg := Message{
		ID:        l.lastID,
		Username:  username,
		Text:      text,
		CreatedAt: l.now().UTC(),
	}
	l.messages = append(l.messages, msg)

	if excess := len(l.messages) - l.capacity; excess > 0 {
		// Copy into a fresh slice so evicted entries do not pin the
		// old backing array.
		trimmed := make([]Message, l.capacity)
		copy(trimmed, l.messages[excess:])
		l.messages = trimmed
	}

	return msg
}

// Recent returns the most recent limit messages in ID-ascending
// order. The result is a copy and is never nil.
func (l *Log) Recent(limit int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.messages) {
		limit = len(l.messages)
	}

	tail := l.messages[len(l.messages)-limit:]
	out := make([]Message, len(tail))
	copy(out, tail)
	return out
}

// Len returns the number of currently stored messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.messages)
}
