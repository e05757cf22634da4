// Package webcash defines the value types and wire codecs shared by the
// wallet core: 256-bit digests, minor-unit amounts, and the secret/public
// webcash string formats.
package webcash

import (
	"encoding/hex"
	"fmt"

	"github.com/webcash-project/walletcore/pkg/helpers"
)

// DigestSize is the width, in bytes, of a webcash digest (a SHA-256 output).
const DigestSize = 32

// Digest is a fixed-width 256-bit value: the SHA-256 hash of a webcash
// secret, or the raw HD root buffer. It is byte-addressable via normal
// array indexing and range.
type Digest [DigestSize]byte

// String renders the digest as 64 lowercase hex characters.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns the digest's bytes as a slice. The returned slice aliases
// the digest; callers that need an independent copy should copy it.
func (d *Digest) Bytes() []byte {
	return d[:]
}

// IsZero reports whether every byte of the digest is zero.
func (d Digest) IsZero() bool {
	return helpers.IsZeroBytes(d[:])
}

// Zero overwrites the digest with zero bytes in place. Used to wipe
// transient derivation buffers and the in-memory HD root on teardown.
func (d *Digest) Zero() {
	for i := range d {
		d[i] = 0
	}
}

// DigestFromHex parses a 64-character lowercase hex string into a Digest.
// Any deviation (wrong length, uppercase, non-hex characters) is an error.
func DigestFromHex(s string) (Digest, error) {
	var d Digest
	if len(s) != DigestSize*2 {
		return d, fmt.Errorf("webcash: digest must be %d hex characters, got %d", DigestSize*2, len(s))
	}
	if !isLowerHex(s) {
		return d, fmt.Errorf("webcash: digest hex must be lowercase")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("webcash: invalid digest hex: %w", err)
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromBytes copies raw bytes into a Digest. Shorter inputs are
// right-padded with zero bytes, matching the HD root load rule; longer
// inputs are an error.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) > DigestSize {
		return d, fmt.Errorf("webcash: %d bytes exceeds digest size %d", len(b), DigestSize)
	}
	copy(d[:], b)
	return d, nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
