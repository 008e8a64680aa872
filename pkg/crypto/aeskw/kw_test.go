package aeskw

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// RFC 3394 §4.1: 128 bits of key data under a 128-bit KEK.
func TestWrapVector128(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff")
	want := mustHex(t, "1fa68b0a8112b447aef34bd8fb5a7b829d3e862371d2cfe5")

	got, err := Wrap(kek, plain)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("wrap mismatch:\n got %x\nwant %x", got, want)
	}
}

// RFC 3394 §4.6: 256 bits of key data under a 256-bit KEK.
func TestWrapVector256(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff000102030405060708090a0b0c0d0e0f")
	want := mustHex(t, "28c9f404c4b810f4cbccb35cfb87f8263f5786e2d80ed326cbc7f0e71a99f43bfb988b9b7a02dd21")

	got, err := Wrap(kek, plain)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("wrap mismatch:\n got %x\nwant %x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f1011121314151617")
	plain := make([]byte, 40)
	for i := range plain {
		plain[i] = byte(i * 7)
	}
	wrapped, err := Wrap(kek, plain)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if len(wrapped) != len(plain)+8 {
		t.Fatalf("wrapped length %d, want %d", len(wrapped), len(plain)+8)
	}
	got, err := Unwrap(kek, wrapped)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch")
	}
}

func TestUnwrapTamper(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plain := mustHex(t, "00112233445566778899aabbccddeeff")
	wrapped, err := Wrap(kek, plain)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	for i := range wrapped {
		mangled := append([]byte(nil), wrapped...)
		mangled[i] ^= 0x01
		if _, err := Unwrap(kek, mangled); !errors.Is(err, ErrIntegrity) {
			t.Fatalf("byte %d: expected ErrIntegrity, got %v", i, err)
		}
	}
}

func TestLengthValidation(t *testing.T) {
	kek := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	if _, err := Wrap(kek, make([]byte, 12)); err == nil {
		t.Fatal("Wrap accepted 12-byte input")
	}
	if _, err := Wrap(kek, make([]byte, 8)); err == nil {
		t.Fatal("Wrap accepted 8-byte input")
	}
	if _, err := Unwrap(kek, make([]byte, 16)); err == nil {
		t.Fatal("Unwrap accepted 16-byte input")
	}
	if _, err := Unwrap(kek, make([]byte, 25)); err == nil {
		t.Fatal("Unwrap accepted non-multiple length")
	}
}
