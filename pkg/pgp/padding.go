package pgp

import (
	"errors"

	"example.com/pgpwrap/pkg/util/securemem"
)

// ErrSessionKey covers every defect on the session-key recovery path:
// key unwrap failure, bad padding, bad checksum, or an unknown cipher
// id. One sentinel for all of them keeps the stages indistinguishable
// to a decryption oracle.
var ErrSessionKey = errors.New("pgp: invalid session key")

func symKeySize(alg byte) int {
	switch alg {
	case SYM_AES128:
		return 16
	case SYM_AES192:
		return 24
	case SYM_AES256:
		return 32
	default:
		return 0
	}
}

// PadSessionKey formats a session key for ECDH key wrapping (RFC 6637 §8):
// cipher id, key octets, 2-octet additive checksum, then PKCS#5-style
// padding to the next multiple of 8 (a full block when already aligned).
func PadSessionKey(symAlg byte, key []byte) ([]byte, error) {
	if symKeySize(symAlg) != len(key) {
		return nil, errors.New("pgp: session key length does not match cipher")
	}
	var chk uint16
	for _, c := range key {
		chk += uint16(c)
	}
	plain := make([]byte, 0, len(key)+3+8)
	plain = append(plain, symAlg)
	plain = append(plain, key...)
	plain = append(plain, byte(chk>>8), byte(chk))
	pad := 8 - len(plain)%8
	if pad == 0 {
		pad = 8
	}
	for i := 0; i < pad; i++ {
		plain = append(plain, byte(pad))
	}
	return plain, nil
}

// UnpadSessionKey validates and strips the RFC 6637 framing. The padded
// input is consumed and destroyed; the bare key comes back in a fresh
// locked buffer.
func UnpadSessionKey(padded *securemem.Secret) (byte, *securemem.Secret, error) {
	defer padded.Destroy()
	b := padded.Bytes()
	if len(b) < 4 || len(b)%8 != 0 {
		return 0, nil, ErrSessionKey
	}
	pad := int(b[len(b)-1])
	if pad < 1 || pad > 8 || len(b) < pad+3 {
		return 0, nil, ErrSessionKey
	}
	for _, c := range b[len(b)-pad:] {
		if int(c) != pad {
			return 0, nil, ErrSessionKey
		}
	}
	body := b[:len(b)-pad]
	symAlg := body[0]
	key := body[1 : len(body)-2]
	if symKeySize(symAlg) != len(key) {
		return 0, nil, ErrSessionKey
	}
	var chk uint16
	for _, c := range key {
		chk += uint16(c)
	}
	if chk != uint16(body[len(body)-2])<<8|uint16(body[len(body)-1]) {
		return 0, nil, ErrSessionKey
	}
	out := securemem.NewZero(len(key))
	copy(out.Bytes(), key)
	return symAlg, out, nil
}
