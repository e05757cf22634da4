package webcash

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicHint renders the 32-byte HD root as a 24-word BIP-39 mnemonic for
// off-line backup display. This is a display convenience only: the wallet
// always stores and derives from the raw root bytes, never the mnemonic, so
// the derivation chain can never drift from it.
func MnemonicHint(root Digest) (string, error) {
	phrase, err := bip39.NewMnemonic(root.Bytes())
	if err != nil {
		return "", fmt.Errorf("webcash: mnemonic encode: %w", err)
	}
	return phrase, nil
}

// MnemonicToRoot is the inverse of MnemonicHint, used to re-key a wallet
// from a backed-up phrase during manual recovery.
func MnemonicToRoot(phrase string) (Digest, error) {
	if !bip39.IsMnemonicValid(phrase) {
		return Digest{}, fmt.Errorf("webcash: invalid mnemonic")
	}
	entropy, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return Digest{}, fmt.Errorf("webcash: mnemonic decode: %w", err)
	}
	return DigestFromBytes(entropy)
}
