package securemem

import (
	"github.com/awnumar/memguard"
)

// Secret wraps a memguard locked buffer. The backing pages are locked
// against swap and wiped when the Secret is destroyed.
type Secret struct {
	buf *memguard.LockedBuffer
}

func NewRandom(n int) *Secret {
	return &Secret{buf: memguard.NewBufferRandom(n)}
}

// New takes ownership of b; memguard wipes the source slice.
func New(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// NewZero returns an n-byte zeroed secret buffer.
func NewZero(n int) *Secret {
	return &Secret{buf: memguard.NewBuffer(n)}
}

func (s *Secret) Bytes() []byte { return s.buf.Bytes() }
func (s *Secret) Len() int      { return s.buf.Size() }
func (s *Secret) Alive() bool   { return s.buf.IsAlive() }
func (s *Secret) Destroy()      { s.buf.Destroy() }

// Wipe zeros a plain slice that briefly held secret material.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
