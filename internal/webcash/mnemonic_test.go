package webcash

import "testing"

func TestMnemonicRoundTrip(t *testing.T) {
	var root Digest
	for i := range root {
		root[i] = byte(i * 7)
	}

	phrase, err := MnemonicHint(root)
	if err != nil {
		t.Fatalf("MnemonicHint() error = %v", err)
	}

	back, err := MnemonicToRoot(phrase)
	if err != nil {
		t.Fatalf("MnemonicToRoot() error = %v", err)
	}
	if back != root {
		t.Errorf("round trip mismatch: got %s want %s", back, root)
	}
}

func TestMnemonicToRootRejectsInvalid(t *testing.T) {
	if _, err := MnemonicToRoot("not a real mnemonic phrase at all"); err == nil {
		t.Error("expected error for invalid mnemonic")
	}
}
