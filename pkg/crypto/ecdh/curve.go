package ecdh

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/brainpool"
	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/dh/x448"

	"example.com/pgpwrap/pkg/mpi"
	"example.com/pgpwrap/pkg/util/securemem"
)

type curveKind int

const (
	// Short Weierstrass curves: points travel as 04 || X || Y.
	kindWeierstrass curveKind = iota
	// Montgomery curves: a single coordinate with a 40 framing octet.
	kindMontgomery
)

// Curve describes one supported ECDH curve: its OID as it appears in the
// key packet, its field size, and the scalar-multiplication backend.
type Curve struct {
	Name  string
	OID   []byte
	QBits uint

	kind curveKind
	ec   elliptic.Curve
}

var supportedCurves = []*Curve{
	{
		Name:  "nistp256",
		OID:   []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x03, 0x01, 0x07},
		QBits: 256,
		kind:  kindWeierstrass,
		ec:    elliptic.P256(),
	},
	{
		Name:  "nistp384",
		OID:   []byte{0x2B, 0x81, 0x04, 0x00, 0x22},
		QBits: 384,
		kind:  kindWeierstrass,
		ec:    elliptic.P384(),
	},
	{
		Name:  "nistp521",
		OID:   []byte{0x2B, 0x81, 0x04, 0x00, 0x23},
		QBits: 521,
		kind:  kindWeierstrass,
		ec:    elliptic.P521(),
	},
	{
		Name:  "brainpoolP256r1",
		OID:   []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x07},
		QBits: 256,
		kind:  kindWeierstrass,
		ec:    brainpool.P256r1(),
	},
	{
		Name:  "brainpoolP384r1",
		OID:   []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x0B},
		QBits: 384,
		kind:  kindWeierstrass,
		ec:    brainpool.P384r1(),
	},
	{
		Name:  "brainpoolP512r1",
		OID:   []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x0D},
		QBits: 512,
		kind:  kindWeierstrass,
		ec:    brainpool.P512r1(),
	},
	{
		Name:  "cv25519",
		OID:   []byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0x97, 0x55, 0x01, 0x05, 0x01},
		QBits: 255,
		kind:  kindMontgomery,
	},
	{
		Name:  "x448",
		OID:   []byte{0x2B, 0x65, 0x6F},
		QBits: 448,
		kind:  kindMontgomery,
	},
}

// CurveByOID resolves a curve from the OID octets of a key packet.
func CurveByOID(oid []byte) (*Curve, error) {
	for _, c := range supportedCurves {
		if bytes.Equal(c.OID, oid) {
			return c, nil
		}
	}
	return nil, ErrBadPublicKey
}

// CurveByName resolves a curve from its name, e.g. "nistp256". The match
// ignores case.
func CurveByName(name string) (*Curve, error) {
	for _, c := range supportedCurves {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown curve %q", name)
}

// CurveNames lists the supported curve names in registry order.
func CurveNames() []string {
	names := make([]string, 0, len(supportedCurves))
	for _, c := range supportedCurves {
		names = append(names, c.Name)
	}
	return names
}

// fieldBytes is the octet length of one coordinate.
func (c *Curve) fieldBytes() int {
	return int(c.QBits+7) / 8
}

// generateScalar makes a fresh private scalar and its public point MPI.
func (c *Curve) generateScalar(rand io.Reader) (*securemem.Secret, *mpi.MPI, error) {
	switch c.kind {
	case kindWeierstrass:
		d, x, y, err := elliptic.GenerateKey(c.ec, rand)
		if err != nil {
			return nil, nil, err
		}
		point := elliptic.Marshal(c.ec, x, y)
		return securemem.New(d), mpi.New(point), nil

	case kindMontgomery:
		switch c.fieldBytes() {
		case x25519.Size:
			var sk, pk x25519.Key
			if _, err := io.ReadFull(rand, sk[:]); err != nil {
				return nil, nil, err
			}
			x25519.KeyGen(&pk, &sk)
			point := append([]byte{0x40}, pk[:]...)
			return securemem.New(sk[:]), mpi.New(point), nil
		case x448.Size:
			var sk, pk x448.Key
			if _, err := io.ReadFull(rand, sk[:]); err != nil {
				return nil, nil, err
			}
			x448.KeyGen(&pk, &sk)
			point := append([]byte{0x40}, pk[:]...)
			return securemem.New(sk[:]), mpi.New(point), nil
		}
	}
	return nil, nil, errors.New("ecdh: unreachable curve kind")
}

// sharedPoint multiplies the peer point by scalar and returns the raw
// shared-point octets (04 || X || Y, or 40 || U for Montgomery curves).
// The caller owns the returned slice and must wipe it.
func (c *Curve) sharedPoint(scalar *securemem.Secret, point *mpi.MPI) ([]byte, error) {
	switch c.kind {
	case kindWeierstrass:
		px, py := elliptic.Unmarshal(c.ec, point.Bytes())
		if px == nil {
			return nil, ErrBadPublicKey
		}
		sx, sy := c.ec.ScalarMult(px, py, scalar.Bytes())
		return elliptic.Marshal(c.ec, sx, sy), nil

	case kindMontgomery:
		raw := point.Bytes()
		if len(raw) != c.fieldBytes()+1 || raw[0] != 0x40 {
			return nil, ErrBadPublicKey
		}
		switch c.fieldBytes() {
		case x25519.Size:
			var sk, pk, sh x25519.Key
			copy(sk[:], scalar.Bytes())
			copy(pk[:], raw[1:])
			ok := x25519.Shared(&sh, &sk, &pk)
			securemem.Wipe(sk[:])
			defer securemem.Wipe(sh[:])
			if !ok {
				return nil, ErrBadPublicKey
			}
			return append([]byte{0x40}, sh[:]...), nil
		case x448.Size:
			var sk, pk, sh x448.Key
			copy(sk[:], scalar.Bytes())
			copy(pk[:], raw[1:])
			ok := x448.Shared(&sh, &sk, &pk)
			securemem.Wipe(sk[:])
			defer securemem.Wipe(sh[:])
			if !ok {
				return nil, ErrBadPublicKey
			}
			return append([]byte{0x40}, sh[:]...), nil
		}
	}
	return nil, errors.New("ecdh: unreachable curve kind")
}
