// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

// Package httpapi exposes the member registration, authentication, and
// group chat endpoints over HTTP.
//
// Routes are registered both at the root and under /api so the
// original browser client's /api/...-style paths keep working.
// Protected routes pass through the RequireMember middleware, the
// single choke point that turns a bearer token into a directory
// member before any handler touches state.
package httpapi
