// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package httpapi

import (
	"context"

	"github.com/memberchat/memberchat/internal/auth"
)

type memberContextKey struct{}

// withMember stores the authenticated member on the request context.
func withMember(ctx context.Context, m *auth.Member) context.Context {
	return context.WithValue(ctx, memberContextKey{}, m)
}

// MemberFromContext returns the member placed on the context by the
// RequireMember middleware, if any.
func MemberFromContext(ctx context.Context) (*auth.Member, bool) {
	m, ok := ctx.Value(memberContextKey{}).(*auth.Member)
	return m, ok
}
