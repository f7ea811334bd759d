// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth

import (
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MaxUsernameLength bounds usernames at registration.
const MaxUsernameLength = 64

// usernameRegexp matches the allowed username charset: letters,
// digits, underscore, dot, and hyphen. The colon is excluded on
// purpose - it is the token field delimiter, and allowing it would
// make signed token payloads ambiguous to split.
var usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Member is a registered account. Members are created only through
// Directory.Register and are never mutated or deleted afterwards.
// The ID is internal; clients are addressed by username.
type Member struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateUsername checks a trimmed username against the registration
// rules: non-empty, at most MaxUsernameLength bytes, restricted
// charset.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegexp.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username may contain only letters, numbers, underscores, dots, and hyphens")
	}
	return nil
}
