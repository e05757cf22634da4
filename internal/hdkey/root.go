package hdkey

import (
	"fmt"

	"github.com/webcash-project/walletcore/internal/webcash"
	"github.com/webcash-project/walletcore/pkg/helpers"
)

// RootVersion is the only HDRoot schema version this core understands.
// Any other stored value is a fatal load error.
const RootVersion = 1

// RandomRoot generates 32 bytes of cryptographically strong randomness
// for a fresh HD root via helpers.GenerateSecureRandom, the wallet's
// sole cryptographically strong randomness source.
func RandomRoot() (webcash.Digest, error) {
	raw, err := helpers.GenerateSecureRandom(webcash.DigestSize)
	if err != nil {
		return webcash.Digest{}, fmt.Errorf("hdkey: generate root: %w", err)
	}
	return webcash.DigestFromBytes(raw)
}

// DecodeRootSecret validates a stored root's version and length and
// right-pads it to the 32-byte working buffer: shorter values are
// right-padded with zeros when loaded. Raw root secrets are 16-32
// bytes; anything else, or a version other than 1, is a fatal load
// error.
func DecodeRootSecret(raw []byte, version int) (webcash.Digest, error) {
	if version != RootVersion {
		return webcash.Digest{}, fmt.Errorf("hdkey: unsupported hdroot version %d", version)
	}
	if len(raw) < 16 || len(raw) > webcash.DigestSize {
		return webcash.Digest{}, fmt.Errorf("hdkey: hdroot secret length %d out of range [16,%d]", len(raw), webcash.DigestSize)
	}
	return webcash.DigestFromBytes(raw)
}
