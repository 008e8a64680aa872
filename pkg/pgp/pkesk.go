package pgp

import (
	"bytes"
	"crypto/rand"
	"errors"

	"example.com/pgpwrap/pkg/crypto/ecdh"
	"example.com/pgpwrap/pkg/mpi"
	"example.com/pgpwrap/pkg/util/securemem"
)

// BuildPKESKv3 builds a v3 Public-Key Encrypted Session Key packet (Tag 1)
// for an ECDH recipient: the session key is padded, wrapped under the
// derived KEK, and written as an ephemeral-point MPI followed by the
// size-prefixed wrap (RFC 6637 §10).
func BuildPKESKv3(pub *ecdh.PublicKey, fingerprint []byte, symAlg byte, sessionKey []byte) ([]byte, error) {
	padded, err := PadSessionKey(symAlg, sessionKey)
	if err != nil {
		return nil, err
	}
	ephemeral, wrapped, err := ecdh.Encrypt(rand.Reader, pub, fingerprint, padded)
	securemem.Wipe(padded)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	body.WriteByte(3) // packet version
	body.Write(KeyIDFromFingerprint(fingerprint))
	body.WriteByte(PKALG_ECDH)
	body.Write(ephemeral.EncodedBytes())
	body.Write(wrapped.Bytes()) // already size-prefixed, not an MPI on the wire
	return Packet(TagPKESK, body.Bytes()), nil
}

// DecodePKESKv3 parses a Tag 1 body, checks it addresses the given key,
// and recovers the session key. Every failure past the packet framing —
// key unwrap, length validation, padding, checksum — surfaces as the one
// ErrSessionKey sentinel so a caller cannot tell which stage rejected it.
func DecodePKESKv3(body []byte, priv *ecdh.PrivateKey, fingerprint []byte) (byte, *securemem.Secret, error) {
	if len(body) < 1+8+1 || body[0] != 3 {
		return 0, nil, ErrPacket
	}
	keyID := body[1:9]
	if !bytes.Equal(keyID, KeyIDFromFingerprint(fingerprint)) {
		return 0, nil, errors.New("pgp: pkesk addresses a different key")
	}
	if body[9] != PKALG_ECDH {
		return 0, nil, errors.New("pgp: pkesk algorithm is not ecdh")
	}
	ephemeral, rest, err := mpi.Read(body[10:])
	if err != nil {
		return 0, nil, ErrPacket
	}
	if len(rest) < 2 {
		return 0, nil, ErrPacket
	}
	wrapped := mpi.New(rest)

	padded, err := ecdh.Decrypt(priv, fingerprint, ephemeral, wrapped)
	if err != nil {
		return 0, nil, ErrSessionKey
	}
	return UnpadSessionKey(padded)
}
