package random

import (
	"crypto/rand"
	"io"
)

// Bytes returns n octets from the system CSPRNG. Used for nonces and IVs;
// session keys and scalars come from securemem / crypto backends directly.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
