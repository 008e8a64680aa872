package mpi

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewStripsLeadingZeros(t *testing.T) {
	m := New([]byte{0x00, 0x00, 0x01, 0xFF})
	if !bytes.Equal(m.Bytes(), []byte{0x01, 0xFF}) {
		t.Fatalf("bytes: %x", m.Bytes())
	}
	if m.BitLength() != 9 {
		t.Fatalf("bit length %d, want 9", m.BitLength())
	}
}

func TestBitLength(t *testing.T) {
	cases := []struct {
		in   []byte
		bits uint16
	}{
		{[]byte{0x01}, 1},
		{[]byte{0x80}, 8},
		{[]byte{0x40, 0x00}, 15},
		{[]byte{0xFF, 0xFF}, 16},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := New(tc.in).BitLength(); got != tc.bits {
			t.Fatalf("New(%x).BitLength() = %d, want %d", tc.in, got, tc.bits)
		}
	}
}

func TestEncodeReadRoundTrip(t *testing.T) {
	m := New([]byte{0x04, 0xDE, 0xAD, 0xBE, 0xEF})
	enc := m.EncodedBytes()
	got, rest, err := Read(append(enc, 0xAA, 0xBB))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got.Bytes(), m.Bytes()) || got.BitLength() != m.BitLength() {
		t.Fatalf("round trip mismatch: %x (%d bits)", got.Bytes(), got.BitLength())
	}
	if !bytes.Equal(rest, []byte{0xAA, 0xBB}) {
		t.Fatalf("rest: %x", rest)
	}
}

func TestReadTruncated(t *testing.T) {
	for _, b := range [][]byte{nil, {0x00}, {0x00, 0x10, 0x12}} {
		if _, _, err := Read(b); !errors.Is(err, ErrTruncated) {
			t.Fatalf("Read(%x): expected ErrTruncated, got %v", b, err)
		}
	}
}

func TestWriteSizeBody(t *testing.T) {
	m := New([]byte{0x2A, 0x86, 0x48})
	out, err := m.WriteSizeBody([]byte{0xF0})
	if err != nil {
		t.Fatalf("WriteSizeBody: %v", err)
	}
	if !bytes.Equal(out, []byte{0xF0, 0x03, 0x2A, 0x86, 0x48}) {
		t.Fatalf("size-body: %x", out)
	}
}
