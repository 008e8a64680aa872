package mpi

import (
	"errors"
	"io"
	"math/bits"
)

// MPI is an OpenPGP multi-precision integer: a 2-octet bit count followed
// by the big-endian value with no leading zero octets (RFC 9580 §3.2).
type MPI struct {
	bytes     []byte
	bitLength uint16
}

var ErrTruncated = errors.New("mpi: truncated")

// New builds an MPI from big-endian bytes, stripping leading zeros.
func New(b []byte) *MPI {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	m := &MPI{bytes: append([]byte(nil), b...)}
	if len(b) > 0 {
		m.bitLength = uint16((len(b)-1)*8 + bits.Len8(b[0]))
	}
	return m
}

// Bytes returns the value octets without the length prefix.
func (m *MPI) Bytes() []byte { return m.bytes }

func (m *MPI) BitLength() uint16 { return m.bitLength }

// ByteLength is the natural octet length of the value.
func (m *MPI) ByteLength() int { return len(m.bytes) }

// EncodedBytes returns the wire form: 2-octet bit count plus value.
func (m *MPI) EncodedBytes() []byte {
	out := make([]byte, 2+len(m.bytes))
	out[0] = byte(m.bitLength >> 8)
	out[1] = byte(m.bitLength)
	copy(out[2:], m.bytes)
	return out
}

func (m *MPI) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.EncodedBytes())
	return int64(n), err
}

// Read parses one MPI off the front of b and returns the remainder.
func Read(b []byte) (*MPI, []byte, error) {
	if len(b) < 2 {
		return nil, nil, ErrTruncated
	}
	bitLen := uint16(b[0])<<8 | uint16(b[1])
	n := (int(bitLen) + 7) / 8
	if len(b) < 2+n {
		return nil, nil, ErrTruncated
	}
	m := &MPI{
		bytes:     append([]byte(nil), b[2:2+n]...),
		bitLength: bitLen,
	}
	return m, b[2+n:], nil
}

// WriteSizeBody appends the 1-octet size-body form of the MPI value: one
// length octet followed by the value octets. This is the form of the curve
// OID field in the ECDH KDF parameter block (RFC 6637 §7); ecdh.KDFParams
// writes that field itself and does not call this method.
func (m *MPI) WriteSizeBody(dst []byte) ([]byte, error) {
	if len(m.bytes) > 0xFF {
		return nil, errors.New("mpi: value too long for size-body form")
	}
	dst = append(dst, byte(len(m.bytes)))
	return append(dst, m.bytes...), nil
}
