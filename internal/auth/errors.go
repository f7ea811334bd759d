// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth

import "github.com/samber/oops"

var (
	// ErrUsernameTaken is returned by Register when the username is
	// already present in the directory.
	ErrUsernameTaken = oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already taken")

	// ErrEmptyPassword is returned by Register when the password is
	// blank after trimming.
	ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")
)
