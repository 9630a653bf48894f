package basename

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Node is the 32-byte namehash addressing a name's record in the registry.
type Node [32]byte

// Hex returns the 0x-prefixed lowercase hex form.
func (n Node) Hex() string { return "0x" + hex.EncodeToString(n[:]) }

// Namehash computes the ENS namehash: labels are hashed right to left, each
// step hashing the parent node concatenated with keccak256(label).
// The empty name hashes to 32 zero bytes.
func Namehash(name string) Node {
	var node Node
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := keccak256([]byte(labels[i]))
		copy(node[:], keccak256(node[:], labelHash))
	}
	return node
}

func keccak256(parts ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return h.Sum(nil)
}
