package ecdh

import (
	"errors"

	"example.com/pgpwrap/pkg/crypto/hash"
	"example.com/pgpwrap/pkg/util/securemem"
)

// The fixed sender string of RFC 6637 §7: 16 ASCII characters padded with
// four trailing spaces, no NUL.
const anonymousSender = "Anonymous Sender    "

// kdfParamsMax bounds the assembled parameter block. A conforming curve
// OID is at most 16 octets, so real inputs stay far below this.
const kdfParamsMax = 256

// KDFParams assembles the "other info" octet string hashed into the KDF
// (RFC 6637 §7):
//
//	len(OID) || OID || 18 || len(params) || params || sender || fingerprint
//
// The layout is byte-exact; any deviation produces ciphertexts no
// conforming implementation can read.
func KDFParams(curveOID []byte, params KekParams, fingerprint []byte) ([]byte, error) {
	if len(curveOID) == 0 || len(curveOID) > 0xFF {
		return nil, ErrBadPublicKey
	}
	enc := params.Encode()

	out := make([]byte, 0, kdfParamsMax)
	out = append(out, byte(len(curveOID)))
	out = append(out, curveOID...)
	out = append(out, algoECDH)
	out = append(out, byte(len(enc)))
	out = append(out, enc...)
	out = append(out, anonymousSender...)
	out = append(out, fingerprint...)
	if len(out) > kdfParamsMax {
		return nil, errors.New("ecdh: kdf params exceed scratch bound")
	}
	return out, nil
}

// deriveKEK runs the single-block concatenation KDF of SP 800-56A §5.8.1:
// Hash(00 00 00 01 || X || params), truncated to the KEK cipher's key
// length. secretX stays owned by the caller.
func deriveKEK(params KekParams, secretX *securemem.Secret, kdfParams []byte) (*securemem.Secret, error) {
	h, err := hash.New(int(params.Hash))
	if err != nil {
		return nil, err
	}
	h.Write([]byte{0x00, 0x00, 0x00, 0x01})
	h.Write(secretX.Bytes())
	h.Write(kdfParams)
	digest := h.Sum(nil)

	k := kekKeySize(params.Cipher)
	if k == 0 || len(digest) < k {
		securemem.Wipe(digest)
		return nil, ErrBadPublicKey
	}
	kek := securemem.NewZero(k)
	copy(kek.Bytes(), digest[:k])
	securemem.Wipe(digest)
	return kek, nil
}
