package webcash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the two webcash string shapes.
type Kind string

const (
	KindSecret Kind = "secret"
	KindPublic Kind = "public"
)

// SecretWebcash is the bearer form of a webcash token: an amount plus the
// raw 32-byte secret preimage, serialised as "eN:secret:<64 hex chars>".
type SecretWebcash struct {
	Amount Amount
	Secret string // lowercase hex, 64 characters
}

// PublicWebcash is the non-bearer form: an amount plus the SHA-256 hash
// of a secret, serialised as "eN:public:<64 hex chars>".
type PublicWebcash struct {
	Amount Amount
	Hash   Digest
}

// String renders a secret webcash as "eN:secret:HEX".
func (w SecretWebcash) String() string {
	return fmt.Sprintf("e%d:secret:%s", w.Amount, w.Secret)
}

// String renders a public webcash as "eN:public:HEX".
func (w PublicWebcash) String() string {
	return fmt.Sprintf("e%d:public:%s", w.Amount, w.Hash.String())
}

// ParseSecret parses "eN:secret:HEX" into its amount and secret hex. Parsing
// is the exact inverse of String and fails on any deviation: missing "e"
// prefix, wrong tag, non-digit amount, wrong-length or non-lowercase hex.
func ParseSecret(s string) (SecretWebcash, error) {
	amount, hexPart, err := splitWebcash(s, KindSecret)
	if err != nil {
		return SecretWebcash{}, err
	}
	if _, err := DigestFromHex(hexPart); err != nil {
		return SecretWebcash{}, fmt.Errorf("webcash: secret: %w", err)
	}
	return SecretWebcash{Amount: amount, Secret: hexPart}, nil
}

// ParsePublic parses "eN:public:HEX" into its amount and hash.
func ParsePublic(s string) (PublicWebcash, error) {
	amount, hexPart, err := splitWebcash(s, KindPublic)
	if err != nil {
		return PublicWebcash{}, err
	}
	hash, err := DigestFromHex(hexPart)
	if err != nil {
		return PublicWebcash{}, fmt.Errorf("webcash: public: %w", err)
	}
	return PublicWebcash{Amount: amount, Hash: hash}, nil
}

// splitWebcash validates and decomposes "e<amount>:<kind>:<hex>".
func splitWebcash(s string, kind Kind) (Amount, string, error) {
	if !strings.HasPrefix(s, "e") {
		return 0, "", fmt.Errorf("webcash: missing 'e' prefix")
	}
	parts := strings.Split(s[1:], ":")
	if len(parts) != 3 {
		return 0, "", fmt.Errorf("webcash: expected 3 colon-separated fields, got %d", len(parts))
	}
	amountStr, tag, hexPart := parts[0], parts[1], parts[2]

	if tag != string(kind) {
		return 0, "", fmt.Errorf("webcash: expected tag %q, got %q", kind, tag)
	}
	if amountStr == "" || !isAllDigits(amountStr) {
		return 0, "", fmt.Errorf("webcash: invalid amount field %q", amountStr)
	}
	n, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("webcash: amount out of range: %w", err)
	}
	return Amount(n), hexPart, nil
}

// SecretHash returns the public hash (the SHA-256 digest of the raw
// secret bytes) corresponding to a secret's hex text, the relation a
// mint server uses to recognize a spent public webcash as redeeming a
// previously-issued secret webcash.
func SecretHash(secretHex string) (Digest, error) {
	raw, err := hex.DecodeString(secretHex)
	if err != nil {
		return Digest{}, fmt.Errorf("webcash: decode secret hex: %w", err)
	}
	return Digest(sha256.Sum256(raw)), nil
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
