package ecdh

import (
	"bytes"
	"errors"
	"testing"

	"example.com/pgpwrap/pkg/crypto/hash"
)

func TestDefaultParamsSelection(t *testing.T) {
	cases := []struct {
		qbits  uint
		hash   byte
		cipher byte
	}{
		{256, hash.SHA256, CipherAES128},
		{255, hash.SHA256, CipherAES128},
		{384, hash.SHA384, CipherAES256},
		{448, hash.SHA512, CipherAES256},
		{521, hash.SHA512, CipherAES256},
		{528, hash.SHA512, CipherAES256},
		// beyond the table: strongest row
		{1024, hash.SHA512, CipherAES256},
	}
	for _, tc := range cases {
		got := DefaultParams(tc.qbits)
		if got.Hash != tc.hash || got.Cipher != tc.cipher {
			t.Fatalf("DefaultParams(%d) = {%d %d}, want {%d %d}",
				tc.qbits, got.Hash, got.Cipher, tc.hash, tc.cipher)
		}
	}
}

func TestDefaultParamsMonotone(t *testing.T) {
	prev := 0
	for qbits := uint(128); qbits <= 1024; qbits += 8 {
		p := DefaultParams(qbits)
		strength := hash.Size(int(p.Hash))
		if strength < prev {
			t.Fatalf("hash strength decreased at qbits=%d", qbits)
		}
		prev = strength
	}
}

func TestKekParamsEncode(t *testing.T) {
	p := KekParams{Hash: hash.SHA256, Cipher: CipherAES128}
	if !bytes.Equal(p.Encode(), []byte{0x03, 0x01, 0x08, 0x07}) {
		t.Fatalf("encode mismatch: %x", p.Encode())
	}
}

func TestKekParamsDecodeRoundTrip(t *testing.T) {
	hashes := []byte{hash.SHA256, hash.SHA384, hash.SHA512}
	ciphers := []byte{CipherAES128, CipherAES192, CipherAES256}
	for _, h := range hashes {
		for _, c := range ciphers {
			p := KekParams{Hash: h, Cipher: c}
			got, err := DecodeParams(p.Encode())
			if err != nil {
				t.Fatalf("decode(%x): %v", p.Encode(), err)
			}
			if got != p {
				t.Fatalf("round trip: got %+v want %+v", got, p)
			}
		}
	}
}

func TestKekParamsDecodeRejects(t *testing.T) {
	bad := [][]byte{
		{0x04, 0x01, 0x08, 0x07}, // wrong leading count
		{0x03, 0x02, 0x08, 0x07}, // wrong version
		{0x03, 0x01, 0x02, 0x07}, // SHA-1 not allowed
		{0x03, 0x01, 0x08, 0x02}, // 3DES not allowed
		{0x03, 0x01, 0x08},       // short
		{0x03, 0x01, 0x08, 0x07, 0x00}, // long
		nil,
	}
	for _, b := range bad {
		if _, err := DecodeParams(b); !errors.Is(err, ErrBadPublicKey) {
			t.Fatalf("decode(%x): expected ErrBadPublicKey, got %v", b, err)
		}
	}
}
