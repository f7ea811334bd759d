// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
)

// tokenSecret keys the HMAC signature on every issued token. Like the
// password salt it is a compiled-in constant, kept for wire
// compatibility with tokens issued by the original deployment.
const tokenSecret = "easyapp-static-token-secret"

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = time.Hour

// ErrInvalidToken is returned by Codec.Verify for every failure mode:
// malformed encoding, bad signature, or expiry. Callers cannot and
// should not distinguish the causes.
var ErrInvalidToken = oops.Code("AUTH_INVALID_TOKEN").Errorf("invalid or expired token")

// Claims is the payload recovered from a verified token.
type Claims struct {
	Username  string
	ExpiresAt time.Time
}

// Codec issues and verifies stateless signed bearer tokens.
//
// Wire format: base64url without padding over the string
// "username:expiry:signature", where expiry is a unix timestamp in
// seconds and signature is the lowercase hex HMAC-SHA256 of
// "username:expiry" under the process secret. There is no server-side
// token state; a token stays valid until its expiry regardless of
// later directory changes.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a Codec with the given TTL. A non-positive TTL
// falls back to DefaultTokenTTL.
func NewCodec(ttl time.Duration) *Codec {
	return NewCodecWithClock(ttl, time.Now)
}

// NewCodecWithClock creates a Codec with an injectable clock, used by
// tests to exercise expiry deterministically.
func NewCodecWithClock(ttl time.Duration, now func() time.Time) *Codec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{
		secret: []byte(tokenSecret),
		ttl:    ttl,
		now:    now,
	}
}

// Issue creates a signed token for the username. The username must be
// non-empty and must not contain the field delimiter; Directory
// enforces both at registration, so callers passing directory-owned
// usernames never see an error here.
func (c *Codec) Issue(username string) (string, error) {
	if username == "" {
		return "", oops.Code("AUTH_EMPTY_USERNAME").Errorf("username cannot be empty")
	}
	if strings.ContainsRune(username, ':') {
		return "", oops.Code("AUTH_UNSIGNABLE_USERNAME").
			With("username", username).
			Errorf("username contains the token field delimiter")
	}

	expiresAt := c.now().Add(c.ttl).Unix()
	payload := username + ":" + strconv.FormatInt(expiresAt, 10)
	full := payload + ":" + c.sign(payload)

	return base64.RawURLEncoding.EncodeToString([]byte(full)), nil
}

// Verify decodes and checks a token, returning its claims if and only
// if the encoding, signature, and expiry are all valid. Every failure
// returns ErrInvalidToken.
func (c *Codec) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	// Issued tokens are unpadded, but tolerate padded input the way
	// the original decoder did.
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}
	username, expiryField, signature := parts[0], parts[1], parts[2]

	expiresAt, err := strconv.ParseInt(expiryField, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	// Re-sign from the parsed value so the check covers exactly what
	// Issue signed.
	payload := username + ":" + strconv.FormatInt(expiresAt, 10)
	if !hmac.Equal([]byte(c.sign(payload)), []byte(signature)) {
		return Claims{}, ErrInvalidToken
	}

	if expiresAt < c.now().Unix() {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Username:  username,
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

// sign computes the lowercase hex HMAC-SHA256 of the payload.
func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
