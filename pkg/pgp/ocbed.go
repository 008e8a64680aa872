package pgp

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
	"errors"

	pmocb "github.com/ProtonMail/go-crypto/ocb"

	"example.com/pgpwrap/pkg/compress"
	"example.com/pgpwrap/pkg/util/random"
)

func u64be(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// SealMessage compresses the plaintext with the given codec and encrypts
// it as a single-chunk OCB Encrypted Data packet (Tag 20). The codec id
// travels as the first octet of the OCB plaintext.
func SealMessage(symAlg byte, sessionKey []byte, codec compress.Codec, plaintext []byte) ([]byte, error) {
	if symKeySize(symAlg) != len(sessionKey) {
		return nil, errors.New("pgp: session key length does not match cipher")
	}
	packed, err := codec.Compress(plaintext)
	if err != nil {
		return nil, err
	}
	inner := make([]byte, 0, 1+len(packed))
	inner = append(inner, codec.ID())
	inner = append(inner, packed...)

	version := byte(1)
	mode := byte(0x02) // OCB
	chunkSize := byte(0x0A)
	iv, err := random.Bytes(15)
	if err != nil {
		return nil, err
	}

	aad := []byte{0xD4, version, symAlg, mode, chunkSize, 0, 0, 0, 0, 0, 0, 0, 0}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, err
	}
	aead, err := pmocb.NewOCB(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, 15)
	copy(nonce, iv)

	ct := aead.Seal(nil, nonce, inner, aad)
	finalAAD := append(aad, u64be(uint64(len(inner)))...)
	finalTag := aead.Seal(nil, nonce, nil, finalAAD)

	body := make([]byte, 0, 4+15+len(ct)+len(finalTag))
	body = append(body, version, symAlg, mode, chunkSize)
	body = append(body, iv...)
	body = append(body, ct...)
	body = append(body, finalTag...)
	return Packet(TagOCBED, body), nil
}

// OpenMessage decrypts a Tag 20 body sealed by SealMessage and inflates
// the payload with whatever codec the first plaintext octet names.
func OpenMessage(body []byte, sessionKey []byte) ([]byte, error) {
	if len(body) < 4+15+16 {
		return nil, ErrPacket
	}
	version, symAlg, mode, chunkSize := body[0], body[1], body[2], body[3]
	if version != 1 || mode != 0x02 {
		return nil, errors.New("pgp: unsupported ocbed variant")
	}
	if symKeySize(symAlg) != len(sessionKey) {
		return nil, errors.New("pgp: session key length does not match cipher")
	}
	iv := body[4:19]
	rest := body[19:]
	if len(rest) < 2*16 {
		return nil, ErrPacket
	}
	ct := rest[:len(rest)-16]
	finalTag := rest[len(rest)-16:]

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return nil, err
	}
	aead, err := pmocb.NewOCB(block)
	if err != nil {
		return nil, err
	}
	aad := []byte{0xD4, version, symAlg, mode, chunkSize, 0, 0, 0, 0, 0, 0, 0, 0}
	nonce := make([]byte, 15)
	copy(nonce, iv)

	inner, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, errors.New("pgp: message authentication failed")
	}
	finalAAD := append(aad, u64be(uint64(len(inner)))...)
	tag := aead.Seal(nil, nonce, nil, finalAAD)
	if subtle.ConstantTimeCompare(tag, finalTag) != 1 {
		return nil, errors.New("pgp: message authentication failed")
	}
	if len(inner) < 1 {
		return nil, ErrPacket
	}
	codec, err := compress.ByID(inner[0])
	if err != nil {
		return nil, err
	}
	return codec.Decompress(inner[1:])
}

