// Package ecdh implements the OpenPGP ECDH key-wrapping pipeline of
// RFC 6637: shared-secret extraction, the concatenation KDF of NIST
// SP 800-56A §5.8.1 over the standardized parameter block, and AES Key
// Wrap of the padded session key. Session-key padding itself belongs to
// the packet layer.
package ecdh

import (
	"io"

	"example.com/pgpwrap/pkg/mpi"
	"example.com/pgpwrap/pkg/util/securemem"
)

// algoECDH is the OpenPGP public-key algorithm id for ECDH.
const algoECDH = 18

// PublicKey is the ECDH key material of a key packet: the curve, the
// public point MPI, and the KEK parameters bound at key creation.
type PublicKey struct {
	Curve *Curve
	Point *mpi.MPI
	KDF   KekParams
}

// PrivateKey adds the secret scalar. The scalar lives in a locked buffer
// for the lifetime of the key.
type PrivateKey struct {
	PublicKey
	D *securemem.Secret
}

// GenerateKey creates a key pair on the given curve with the curve's
// default KEK parameters.
func GenerateKey(rand io.Reader, c *Curve) (*PrivateKey, error) {
	d, point, err := c.generateScalar(rand)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		PublicKey: PublicKey{
			Curve: c,
			Point: point,
			KDF:   DefaultParams(c.QBits),
		},
		D: d,
	}, nil
}

// Destroy wipes the secret scalar.
func (p *PrivateKey) Destroy() {
	if p.D != nil {
		p.D.Destroy()
		p.D = nil
	}
}

// Encrypt generates an ephemeral scalar, computes the shared point against
// pub, and wraps the caller-padded session key. It returns the ephemeral
// public point and the size-prefixed wrap, both as MPIs, in the order the
// PKESK packet carries them.
func Encrypt(rand io.Reader, pub *PublicKey, fingerprint []byte, padded []byte) (ephemeral, wrapped *mpi.MPI, err error) {
	scalar, ephPoint, err := pub.Curve.generateScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	defer scalar.Destroy()

	shared, err := pub.Curve.sharedPoint(scalar, pub.Point)
	if err != nil {
		return nil, nil, err
	}
	secretX, err := ExtractSharedX(shared, pub.Curve.QBits)
	if err != nil {
		return nil, nil, err
	}

	wrapped, err = WrapSessionKey(pub.Curve.OID, pub.KDF, fingerprint, secretX, padded)
	if err != nil {
		return nil, nil, err
	}
	return ephPoint, wrapped, nil
}

// Decrypt recomputes the shared point from the ephemeral public point and
// unwraps the session key. The returned buffer still carries the sender's
// padding; the packet layer strips and validates it.
func Decrypt(priv *PrivateKey, fingerprint []byte, ephemeral, wrapped *mpi.MPI) (*securemem.Secret, error) {
	shared, err := priv.Curve.sharedPoint(priv.D, ephemeral)
	if err != nil {
		return nil, err
	}
	secretX, err := ExtractSharedX(shared, priv.Curve.QBits)
	if err != nil {
		return nil, err
	}
	return UnwrapSessionKey(priv.Curve.OID, priv.KDF, fingerprint, secretX, wrapped)
}
