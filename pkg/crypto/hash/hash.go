package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// OpenPGP digest algorithm ids (RFC 9580 §9.5).
const (
	SHA256 = 8
	SHA384 = 9
	SHA512 = 10
)

// New returns a fresh hash state for the given OpenPGP digest id.
func New(id int) (hash.Hash, error) {
	switch id {
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %d", id)
	}
}

// Size returns the digest length in octets, or 0 for unknown ids.
func Size(id int) int {
	switch id {
	case SHA256:
		return sha256.Size
	case SHA384:
		return sha512.Size384
	case SHA512:
		return sha512.Size
	default:
		return 0
	}
}

func Name(id int) string {
	switch id {
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	default:
		return fmt.Sprintf("hash-%d", id)
	}
}
