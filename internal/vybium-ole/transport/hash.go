package transport

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// CommitmentHashSize is the output width of every selectable
// commitment hash.
const CommitmentHashSize = 32

// CommitmentHash resolves a hash function name to the 32-byte digest
// function used for the protocol's secret commitment. Supported names
// are "sha256" and "sha3"; both parties must agree on the choice since
// the digest travels over the wire.
func CommitmentHash(name string) (func([]byte) [CommitmentHashSize]byte, error) {
	switch name {
	case "sha256":
		return sha256.Sum256, nil
	case "sha3":
		return sha3.Sum256, nil
	default:
		return nil, fmt.Errorf("transport: unsupported hash function %q", name)
	}
}
