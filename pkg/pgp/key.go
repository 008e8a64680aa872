package pgp

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"time"

	"example.com/pgpwrap/pkg/crypto/ecdh"
	"example.com/pgpwrap/pkg/mpi"
	"example.com/pgpwrap/pkg/util/securemem"
)

// Algorithm IDs (RFC 9580 / IANA OpenPGP registry)
const (
	PKALG_RSA  = 1
	PKALG_ECDH = 18
)

// Symmetric cipher ids for the encrypted payload.
const (
	SYM_AES128 = 7
	SYM_AES192 = 8
	SYM_AES256 = 9
)

// serializeKeyBody writes the v4 public-key fields for an ECDH key:
// version(4) || created(4) || alg(18) || oidlen || oid || point MPI ||
// kdflen || 01 || hash || cipher (RFC 6637 §9).
func serializeKeyBody(pub *ecdh.PublicKey, created time.Time) []byte {
	point := pub.Point.EncodedBytes()
	b := make([]byte, 0, 1+4+1+1+len(pub.Curve.OID)+len(point)+4)
	b = append(b, 4)
	var t [4]byte
	binary.BigEndian.PutUint32(t[:], uint32(created.Unix()))
	b = append(b, t[:]...)
	b = append(b, PKALG_ECDH)
	b = append(b, byte(len(pub.Curve.OID)))
	b = append(b, pub.Curve.OID...)
	b = append(b, point...)
	// the key packet's KDF field reuses the 4-octet KEK parameter blob
	b = append(b, pub.KDF.Encode()...)
	return b
}

// BuildPublicKeyV4 builds a v4 Public-Key (Tag 6) packet for an ECDH key.
func BuildPublicKeyV4(pub *ecdh.PublicKey, created time.Time) []byte {
	return Packet(TagPublicKey, serializeKeyBody(pub, created))
}

// BuildSecretKeyV4 builds a v4 Secret-Key (Tag 5) packet with S2K usage 0
// (unencrypted): public fields, a zero usage octet, the scalar MPI, and the
// 2-octet additive checksum over the scalar field.
func BuildSecretKeyV4(priv *ecdh.PrivateKey, created time.Time) []byte {
	body := serializeKeyBody(&priv.PublicKey, created)
	body = append(body, 0) // s2k usage octet = 0 (no protection)
	scalarMPI := mpi.New(priv.D.Bytes())
	scalar := scalarMPI.EncodedBytes()
	var chk uint16
	for _, c := range scalar {
		chk += uint16(c)
	}
	body = append(body, scalar...)
	body = append(body, byte(chk>>8), byte(chk))
	pkt := Packet(TagSecretKey, body)
	securemem.Wipe(scalarMPI.Bytes())
	securemem.Wipe(scalar)
	securemem.Wipe(body)
	return pkt
}

// FingerprintV4 computes the 20-octet v4 fingerprint over
// 99 || 2-octet length || key body (RFC 9580 §5.5.4).
func FingerprintV4(pub *ecdh.PublicKey, created time.Time) []byte {
	body := serializeKeyBody(pub, created)
	h := sha1.New()
	h.Write([]byte{0x99, byte(len(body) >> 8), byte(len(body))})
	h.Write(body)
	return h.Sum(nil)
}

// KeyIDFromFingerprint is the low 64 bits of a v4 fingerprint.
func KeyIDFromFingerprint(fp []byte) []byte {
	return fp[len(fp)-8:]
}

// ParsedKey is a decoded v4 ECDH key packet plus its derived identity.
type ParsedKey struct {
	Created     time.Time
	Public      ecdh.PublicKey
	Fingerprint []byte

	// set only for Tag 5 packets
	Private *ecdh.PrivateKey
}

// ParseKeyV4 decodes a Tag 6 or Tag 5 packet body produced by the builders
// above. Secret scalars go straight into a locked buffer.
func ParseKeyV4(tag byte, body []byte) (*ParsedKey, error) {
	if len(body) < 1+4+1+1 || body[0] != 4 {
		return nil, ErrPacket
	}
	created := time.Unix(int64(binary.BigEndian.Uint32(body[1:5])), 0).UTC()
	if body[5] != PKALG_ECDH {
		return nil, errors.New("pgp: not an ecdh key packet")
	}
	rest := body[6:]

	oidLen := int(rest[0])
	if len(rest) < 1+oidLen {
		return nil, ErrPacket
	}
	oid := rest[1 : 1+oidLen]
	curve, err := ecdh.CurveByOID(oid)
	if err != nil {
		return nil, err
	}
	rest = rest[1+oidLen:]

	point, rest, err := mpi.Read(rest)
	if err != nil {
		return nil, ErrPacket
	}
	if len(rest) < 4 {
		return nil, ErrPacket
	}
	kdf, err := ecdh.DecodeParams(rest[:4])
	if err != nil {
		return nil, err
	}
	rest = rest[4:]

	k := &ParsedKey{
		Created: created,
		Public: ecdh.PublicKey{
			Curve: curve,
			Point: point,
			KDF:   kdf,
		},
	}
	k.Fingerprint = FingerprintV4(&k.Public, created)

	if tag == TagPublicKey {
		if len(rest) != 0 {
			return nil, ErrPacket
		}
		return k, nil
	}
	if tag != TagSecretKey {
		return nil, ErrPacket
	}

	if len(rest) < 1 || rest[0] != 0 {
		return nil, errors.New("pgp: protected secret keys not supported")
	}
	rest = rest[1:]
	scalar, rest, err := mpi.Read(rest)
	if err != nil {
		return nil, ErrPacket
	}
	if len(rest) != 2 {
		return nil, ErrPacket
	}
	enc := scalar.EncodedBytes()
	var chk uint16
	for _, c := range enc {
		chk += uint16(c)
	}
	securemem.Wipe(enc)
	if chk != uint16(rest[0])<<8|uint16(rest[1]) {
		securemem.Wipe(scalar.Bytes())
		return nil, errors.New("pgp: secret key checksum mismatch")
	}

	// restore octets the MPI form stripped
	n := int(curve.QBits+7) / 8
	raw := make([]byte, n)
	sb := scalar.Bytes()
	if len(sb) > n {
		securemem.Wipe(sb)
		return nil, ErrPacket
	}
	copy(raw[n-len(sb):], sb)
	securemem.Wipe(sb)
	k.Private = &ecdh.PrivateKey{
		PublicKey: k.Public,
		D:         securemem.New(raw),
	}
	return k, nil
}
