// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// passwordSalt is prepended to every password before hashing. It is a
// single process-wide constant, kept for wire compatibility with
// digests produced by the original deployment.
const passwordSalt = "easyapp-static-password-salt"

// PasswordHasher produces storable digests of raw passwords.
type PasswordHasher interface {
	// Hash returns a deterministic hex digest of the raw password.
	Hash(raw string) string
}

// SaltedHasher implements PasswordHasher as hex(SHA-256(salt + raw))
// with a static salt.
//
// This scheme is deliberately simple: no per-record salt and no slow
// KDF, so equal passwords produce equal digests. That is acceptable
// only for a demo-grade service; a production deployment needs a
// per-record random salt and a memory-hard KDF such as argon2id.
// Changing the scheme here would invalidate every stored digest.
type SaltedHasher struct {
	salt string
}

// NewSaltedHasher creates a SaltedHasher with the process-wide salt.
func NewSaltedHasher() *SaltedHasher {
	return &SaltedHasher{salt: passwordSalt}
}

// Hash returns the hex-encoded SHA-256 digest of salt + raw. Any input,
// including the empty string, produces a digest; callers reject empty
// passwords before storage.
func (h *SaltedHasher) Hash(raw string) string {
	sum := sha256.Sum256([]byte(h.salt + raw))
	return hex.EncodeToString(sum[:])
}
