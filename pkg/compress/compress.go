package compress

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"fmt"
	"io"

	dbz2 "github.com/dsnet/compress/bzip2"
)

// OpenPGP compression algorithm ids (RFC 9580 §9.4).
const (
	None  = 0
	ZIP   = 1
	ZLIB  = 2
	BZip2 = 3
)

type Codec interface {
	ID() byte
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

// ByID returns the codec for an OpenPGP compression algorithm id.
func ByID(id byte) (Codec, error) {
	switch id {
	case None:
		return noop{}, nil
	case ZIP:
		return deflateCodec{}, nil
	case ZLIB:
		return zlibCodec{}, nil
	case BZip2:
		return bzip2Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm %d", id)
	}
}

// ByName maps the CLI spelling to a codec.
func ByName(name string) (Codec, error) {
	switch name {
	case "none":
		return noop{}, nil
	case "zip":
		return deflateCodec{}, nil
	case "zlib":
		return zlibCodec{}, nil
	case "bzip2":
		return bzip2Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", name)
	}
}

type noop struct{}

func (noop) ID() byte                            { return None }
func (noop) Compress(b []byte) ([]byte, error)   { return b, nil }
func (noop) Decompress(b []byte) ([]byte, error) { return b, nil }

type deflateCodec struct{}

func (deflateCodec) ID() byte { return ZIP }
func (deflateCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (deflateCodec) Decompress(b []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	return io.ReadAll(r)
}

type zlibCodec struct{}

func (zlibCodec) ID() byte { return ZLIB }
func (zlibCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (zlibCodec) Decompress(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type bzip2Codec struct{}

func (bzip2Codec) ID() byte { return BZip2 }
func (bzip2Codec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := dbz2.NewWriter(&buf, &dbz2.WriterConfig{Level: dbz2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
func (bzip2Codec) Decompress(b []byte) ([]byte, error) {
	r, err := dbz2.NewReader(bytes.NewReader(b), &dbz2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
