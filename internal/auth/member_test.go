// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memberchat/memberchat/internal/auth"
)

func TestValidateUsername(t *testing.T) {
	t.Run("accepts typical names", func(t *testing.T) {
		for _, name := range []string{"alice", "Bob_42", "x", "first.last", "kebab-case"} {
			assert.NoError(t, auth.ValidateUsername(name), name)
		}
	})

	t.Run("rejects empty", func(t *testing.T) {
		assert.Error(t, auth.ValidateUsername(""))
	})

	t.Run("rejects overlong", func(t *testing.T) {
		assert.Error(t, auth.ValidateUsername(strings.Repeat("a", auth.MaxUsernameLength+1)))
	})

	t.Run("accepts max length", func(t *testing.T) {
		assert.NoError(t, auth.ValidateUsername(strings.Repeat("a", auth.MaxUsernameLength)))
	})

	t.Run("rejects the token delimiter", func(t *testing.T) {
		assert.Error(t, auth.ValidateUsername("al:ce"))
	})

	t.Run("rejects whitespace and control characters", func(t *testing.T) {
		for _, name := range []string{"a b", "tab\tname", "new\nline", "émile"} {
			assert.Error(t, auth.ValidateUsername(name), name)
		}
	})
}
