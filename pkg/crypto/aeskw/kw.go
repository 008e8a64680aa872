package aeskw

import (
	"crypto/aes"
	"crypto/subtle"
	"errors"
)

// ErrIntegrity is returned by Unwrap when the recovered IV does not match,
// meaning a wrong KEK or a tampered wrap.
var ErrIntegrity = errors.New("aeskw: integrity check failed")

var defaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// Wrap wraps plaintext under kek using RFC 3394 AES Key Wrap with the
// default IV. The plaintext length must be a multiple of 8 and at least 16;
// the output is 8 octets longer than the input.
func Wrap(kek, plaintext []byte) ([]byte, error) {
	if len(plaintext)%8 != 0 || len(plaintext) < 16 {
		return nil, errors.New("aeskw: plain length must be multiple of 8 and >= 16")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(plaintext) / 8
	out := make([]byte, 8+len(plaintext))
	copy(out[:8], defaultIV[:])
	copy(out[8:], plaintext)

	var buf [16]byte
	for j := 0; j < 6; j++ {
		for i := 1; i <= n; i++ {
			copy(buf[:8], out[:8])
			copy(buf[8:], out[i*8:i*8+8])
			block.Encrypt(buf[:], buf[:])
			t := uint64(n*j + i)
			for k := 0; k < 8; k++ {
				out[k] = buf[k] ^ byte(t>>(56-8*k))
			}
			copy(out[i*8:i*8+8], buf[8:])
		}
	}
	return out, nil
}

// Unwrap inverts Wrap and verifies the integrity register against the
// default IV. The wrapped length must be a multiple of 8 and at least 24.
func Unwrap(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped)%8 != 0 || len(wrapped) < 24 {
		return nil, errors.New("aeskw: wrapped length must be multiple of 8 and >= 24")
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, err
	}

	n := len(wrapped)/8 - 1
	a := make([]byte, 8)
	copy(a, wrapped[:8])
	out := make([]byte, len(wrapped)-8)
	copy(out, wrapped[8:])

	var buf [16]byte
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			for k := 0; k < 8; k++ {
				buf[k] = a[k] ^ byte(t>>(56-8*k))
			}
			copy(buf[8:], out[(i-1)*8:i*8])
			block.Decrypt(buf[:], buf[:])
			copy(a, buf[:8])
			copy(out[(i-1)*8:i*8], buf[8:])
		}
	}

	if subtle.ConstantTimeCompare(a, defaultIV[:]) != 1 {
		return nil, ErrIntegrity
	}
	return out, nil
}
