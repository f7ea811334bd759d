// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

// Package auth provides the authentication primitives for memberchat.
//
// # Components
//
//   - SaltedHasher - one-way password digests for storage
//   - Codec - stateless signed bearer tokens with expiry
//   - Directory - the process-wide member table (registration, lookup,
//     credential verification)
//
// Members should be created only through Directory.Register, which
// validates the username and password before inserting. Direct struct
// initialization bypasses validation and may create invalid state.
//
// The hashing and signing schemes use compiled-in secrets and are
// wire-compatible with the original reference deployment. They are
// demo-grade by intent; see the SaltedHasher and Codec doc comments.
package auth
