package ecdh

import (
	"example.com/pgpwrap/pkg/util/securemem"
)

// ExtractSharedX pulls the X coordinate out of a shared-point encoding:
// 04 || X || Y for Weierstrass curves, 40 || U for Montgomery curves. In
// both cases exactly one framing octet precedes the coordinate. The result
// is ceil(qbits/8) octets in a locked buffer; the input slice is wiped.
func ExtractSharedX(point []byte, qbits uint) (*securemem.Secret, error) {
	n := int(qbits+7) / 8
	if len(point) <= n {
		securemem.Wipe(point)
		return nil, ErrBadPublicKey
	}
	x := securemem.NewZero(n)
	copy(x.Bytes(), point[1:1+n])
	securemem.Wipe(point)
	return x, nil
}
