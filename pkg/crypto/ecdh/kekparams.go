package ecdh

import (
	"example.com/pgpwrap/pkg/crypto/hash"
)

// OpenPGP symmetric cipher ids usable as KEK ciphers (RFC 9580 §9.3).
const (
	CipherAES128 = 7
	CipherAES192 = 8
	CipherAES256 = 9
)

// KekParams carries the KDF hash and KEK cipher choice bound into an ECDH
// key. On the wire it is always the four octets 03 01 hash cipher
// (RFC 6637 §9): a count octet, the KDF+AESWRAP version, and the two ids.
type KekParams struct {
	Hash   byte
	Cipher byte
}

// Sorted by ascending qbits; DefaultParams walks it from the front.
var kekParamsTable = []struct {
	qbits  uint
	hash   byte
	cipher byte
}{
	{256, hash.SHA256, CipherAES128},
	{384, hash.SHA384, CipherAES256},

	// 521 rounded up to the octet boundary for NIST P-521.
	{528, hash.SHA512, CipherAES256},
}

// DefaultParams picks the weakest hash/cipher pair whose strength covers a
// curve of the given size. Performance is irrelevant here; the choice only
// has to interoperate, so curves beyond the table get the strongest row.
func DefaultParams(qbits uint) KekParams {
	for _, row := range kekParamsTable {
		if row.qbits >= qbits {
			return KekParams{Hash: row.hash, Cipher: row.cipher}
		}
	}
	last := kekParamsTable[len(kekParamsTable)-1]
	return KekParams{Hash: last.hash, Cipher: last.cipher}
}

// Encode returns the canonical 4-octet blob: 03 01 hash cipher.
func (p KekParams) Encode() []byte {
	return []byte{3, 1, p.Hash, p.Cipher}
}

// DecodeParams parses and validates a KEK parameter blob. Anything but
// 03 01 with an enumerated hash and cipher is rejected.
func DecodeParams(b []byte) (KekParams, error) {
	if len(b) != 4 || b[0] != 3 || b[1] != 1 {
		return KekParams{}, ErrBadPublicKey
	}
	p := KekParams{Hash: b[2], Cipher: b[3]}
	if hash.Size(int(p.Hash)) == 0 {
		return KekParams{}, ErrBadPublicKey
	}
	if kekKeySize(p.Cipher) == 0 {
		return KekParams{}, ErrBadPublicKey
	}
	return p, nil
}

// kekKeySize maps a KEK cipher id to its AES key length, 0 if unsupported.
func kekKeySize(cipher byte) int {
	switch cipher {
	case CipherAES128:
		return 16
	case CipherAES192:
		return 24
	case CipherAES256:
		return 32
	default:
		return 0
	}
}
