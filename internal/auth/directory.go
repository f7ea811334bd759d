// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// dummyDigest is compared against when a username is unknown, so that
// VerifyPassword does the same amount of work whether or not the
// member exists. It is all zeros and can never equal a real digest.
const dummyDigest = "0000000000000000000000000000000000000000000000000000000000000000"

// Directory is the process-wide username -> member table. It is the
// only place identity is created or checked. State lives in memory
// and is lost on restart; outstanding tokens for vanished members are
// rejected by the auth gate's directory lookup.
type Directory struct {
	mu      sync.RWMutex
	hasher  PasswordHasher
	members map[string]*Member
}

// NewDirectory creates an empty Directory using the given hasher.
func NewDirectory(hasher PasswordHasher) *Directory {
	return &Directory{
		hasher:  hasher,
		members: make(map[string]*Member),
	}
}

// Register creates a new member. The username is trimmed and
// validated; the password must be non-blank after trimming but is
// hashed exactly as supplied. Returns ErrUsernameTaken if the name is
// already present. The existence check and insert happen in one
// critical section, so two concurrent registrations of the same name
// cannot both succeed.
func (d *Directory) Register(username, password string) (*Member, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}

	member := &Member{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: d.hasher.Hash(password),
		CreatedAt:    time.Now().UTC(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.members[username]; exists {
		return nil, ErrUsernameTaken
	}
	d.members[username] = member

	return member, nil
}

// Find returns the member for an exact, case-sensitive username match.
func (d *Directory) Find(username string) (*Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	member, ok := d.members[username]
	return member, ok
}

// VerifyPassword reports whether the member exists and the password
// matches its stored digest. When the member is absent the supplied
// password is still hashed and compared against a dummy digest, so
// response time does not leak which usernames exist.
func (d *Directory) VerifyPassword(username, password string) bool {
	d.mu.RLock()
	member, exists := d.members[username]
	d.mu.RUnlock()

	stored := dummyDigest
	if exists {
		stored = member.PasswordHash
	}

	candidate := d.hasher.Hash(password)
	match := subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1

	return exists && match
}

// Len returns the number of registered members.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.members)
}
