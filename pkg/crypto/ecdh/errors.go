package ecdh

import "errors"

// Stable error kinds for the ECDH key-wrapping pipeline. They stay
// distinct here; the packet layer maps every decryption failure onto one
// sentinel so its callers cannot tell which stage rejected the input.
var (
	ErrBadPublicKey = errors.New("ecdh: bad public key")
	ErrBadMPI       = errors.New("ecdh: inconsistent mpi")
	ErrBadKey       = errors.New("ecdh: key unwrap failed")
)
