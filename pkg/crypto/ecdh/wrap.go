package ecdh

import (
	"errors"

	"example.com/pgpwrap/pkg/crypto/aeskw"
	"example.com/pgpwrap/pkg/mpi"
	"example.com/pgpwrap/pkg/util/securemem"
)

// WrapSessionKey derives the KEK from the shared secret and wraps the
// caller-padded session key (RFC 3394). The result is the MPI whose octets
// are one length byte followed by the wrap; the wrap is 8 octets longer
// than the input. secretX is consumed and destroyed on every path.
func WrapSessionKey(curveOID []byte, params KekParams, fingerprint []byte, secretX *securemem.Secret, padded []byte) (*mpi.MPI, error) {
	defer secretX.Destroy()

	if len(padded)%8 != 0 || len(padded) < 16 {
		return nil, errors.New("ecdh: padded session key length must be a multiple of 8 and >= 16")
	}
	kdfParams, err := KDFParams(curveOID, params, fingerprint)
	if err != nil {
		return nil, err
	}
	kek, err := deriveKEK(params, secretX, kdfParams)
	if err != nil {
		return nil, err
	}
	defer kek.Destroy()

	wrapped, err := aeskw.Wrap(kek.Bytes(), padded)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+len(wrapped))
	out[0] = byte(len(wrapped))
	copy(out[1:], wrapped)
	return mpi.New(out), nil
}

// UnwrapSessionKey validates the size-prefixed wrap, derives the same KEK,
// and unwraps. The returned buffer still carries the caller's padding.
// Integrity failure reports ErrBadKey with no further detail; a mismatched
// size octet reports ErrBadMPI. secretX is consumed and destroyed.
func UnwrapSessionKey(curveOID []byte, params KekParams, fingerprint []byte, secretX *securemem.Secret, wrapped *mpi.MPI) (*securemem.Secret, error) {
	defer secretX.Destroy()

	raw := wrapped.Bytes()
	if len(raw) < 2 || int(raw[0]) != len(raw)-1 {
		return nil, ErrBadMPI
	}
	n := int(raw[0])
	if n%8 != 0 || n < 24 {
		return nil, ErrBadMPI
	}

	kdfParams, err := KDFParams(curveOID, params, fingerprint)
	if err != nil {
		return nil, err
	}
	kek, err := deriveKEK(params, secretX, kdfParams)
	if err != nil {
		return nil, err
	}
	defer kek.Destroy()

	padded, err := aeskw.Unwrap(kek.Bytes(), raw[1:])
	if err != nil {
		return nil, ErrBadKey
	}
	return securemem.New(padded), nil
}
