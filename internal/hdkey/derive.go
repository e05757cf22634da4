// Package hdkey implements the wallet's HD key engine: root creation,
// deterministic secret derivation, and the chaincode category encoding.
// An earlier btcsuite/btcd-hdkeychain-backed derivation engine had the
// same stateful-engine-behind-a-narrow-Derive-API shape; this wallet's
// tokens are bearer hash preimages, not BIP-32 extended keys, so
// hdkeychain itself has no role here, only the flat SHA-256 chain this
// wallet's on-disk format mandates byte-for-byte.
package hdkey

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/webcash-project/walletcore/internal/webcash"
)

// derivationTag is the fixed domain-separation tag mixed into every
// derivation. It is itself a SHA-256 hash of a constant string.
var derivationTag = sha256.Sum256([]byte("webcashwalletv1"))

// Derive computes the hex-encoded secret for (root, chaincode, mine,
// sweep, depth):
//
//	secret := SHA256(tag || tag || root || chaincode_bytes || depth_bytes)
//
// chaincode_bytes is the 62-bit user-supplied chaincode index left-
// shifted by 2 with the category bits OR-ed into the low 2 bits,
// encoded as 8 big-endian bytes. depth_bytes is depth as 8 big-endian
// bytes. The result is returned as 64 lowercase hex characters; all
// intermediate raw buffers are zeroed before return.
func Derive(root webcash.Digest, chaincode uint64, mine, sweep bool, depth uint64) string {
	chaincodeBytes := encodeChaincode(chaincode, mine, sweep)
	depthBytes := encodeDepth(depth)

	buf := make([]byte, 0, len(derivationTag)*2+webcash.DigestSize+len(chaincodeBytes)+len(depthBytes))
	buf = append(buf, derivationTag[:]...)
	buf = append(buf, derivationTag[:]...)
	buf = append(buf, root[:]...)
	buf = append(buf, chaincodeBytes[:]...)
	buf = append(buf, depthBytes[:]...)

	sum := sha256.Sum256(buf)
	hexSecret := hex.EncodeToString(sum[:])

	zero(buf)
	zero(sum[:])
	zero(chaincodeBytes[:])
	zero(depthBytes[:])

	return hexSecret
}

// encodeChaincode produces the 8 big-endian bytes for a chaincode word:
// the 62-bit index shifted left by 2, OR-ed with the category's 2 bits.
func encodeChaincode(index uint64, mine, sweep bool) [8]byte {
	cat := CategoryOf(mine, sweep)
	word := (index << 2) | uint64(cat.Bits())
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], word)
	return b
}

func encodeDepth(depth uint64) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], depth)
	return b
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
