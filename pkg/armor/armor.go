package armor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
)

// Block types this tool reads and writes.
const (
	TypeMessage    = "PGP MESSAGE"
	TypePublicKey  = "PGP PUBLIC KEY BLOCK"
	TypePrivateKey = "PGP PRIVATE KEY BLOCK"
)

var ErrArmor = errors.New("armor: malformed block")

// CRC-24 (poly 0x1864CF, init 0xB704CE) as used by OpenPGP armor.
func crc24(data []byte) uint32 {
	crc := uint32(0xB704CE)
	for _, b := range data {
		crc ^= uint32(b) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if (crc & 0x1000000) != 0 {
				crc ^= 0x1864CF
			}
		}
	}
	return crc & 0xFFFFFF
}

// Encode wraps raw bytes in an ASCII armored block with a CRC-24 footer.
func Encode(blockType string, raw []byte, headers map[string]string) []byte {
	b64 := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(b64, raw)

	var buf bytes.Buffer
	buf.WriteString("-----BEGIN " + blockType + "-----\n")
	for k, v := range headers {
		buf.WriteString(fmt.Sprintf("%s: %s\n", k, v))
	}
	buf.WriteString("\n")
	for i := 0; i < len(b64); i += 64 {
		end := i + 64
		if end > len(b64) {
			end = len(b64)
		}
		buf.Write(b64[i:end])
		buf.WriteByte('\n')
	}

	crc := crc24(raw)
	crcBytes := []byte{byte(crc >> 16), byte(crc >> 8), byte(crc)}
	crcB64 := make([]byte, base64.StdEncoding.EncodedLen(3))
	base64.StdEncoding.Encode(crcB64, crcBytes)
	buf.WriteString("=")
	buf.Write(crcB64)
	buf.WriteByte('\n')

	buf.WriteString("-----END " + blockType + "-----\n")
	return buf.Bytes()
}

// Decode parses an armored block and returns its type and payload. A CRC
// line is verified when present; armor without one is accepted.
func Decode(in []byte) (string, []byte, error) {
	beginPrefix := []byte("-----BEGIN ")
	start := bytes.Index(in, beginPrefix)
	if start < 0 {
		return "", nil, ErrArmor
	}
	in = in[start+len(beginPrefix):]
	endType := bytes.Index(in, []byte("-----"))
	if endType < 0 {
		return "", nil, ErrArmor
	}
	blockType := string(in[:endType])
	in = in[endType+len("-----"):]

	endMarker := []byte("-----END " + blockType + "-----")
	end := bytes.Index(in, endMarker)
	if end < 0 {
		return "", nil, ErrArmor
	}
	body := in[:end]

	lines := bytes.Split(body, []byte{'\n'})
	// the first line is the tail of the BEGIN marker line
	if len(lines) > 0 && len(bytes.TrimSpace(lines[0])) == 0 {
		lines = lines[1:]
	}
	dataStart := 0
	for i, ln := range lines {
		ln = bytes.TrimRight(ln, "\r")
		if len(bytes.TrimSpace(ln)) == 0 {
			dataStart = i + 1
			break
		}
		if !bytes.ContainsRune(ln, ':') {
			// no headers at all: this is already data
			break
		}
	}

	dataLines := make([][]byte, 0, len(lines)-dataStart)
	for _, ln := range lines[dataStart:] {
		ln = bytes.TrimRight(ln, "\r")
		if len(bytes.TrimSpace(ln)) == 0 {
			continue
		}
		dataLines = append(dataLines, ln)
	}
	if len(dataLines) == 0 {
		return "", nil, ErrArmor
	}

	var crcGiven []byte
	last := dataLines[len(dataLines)-1]
	if len(last) > 0 && last[0] == '=' {
		crcB64 := bytes.TrimSpace(last[1:])
		dec := make([]byte, base64.StdEncoding.DecodedLen(len(crcB64)))
		n, err := base64.StdEncoding.Decode(dec, crcB64)
		if err != nil || n != 3 {
			return "", nil, ErrArmor
		}
		crcGiven = dec[:n]
		dataLines = dataLines[:len(dataLines)-1]
	}
	if len(dataLines) == 0 {
		return "", nil, ErrArmor
	}

	b64 := bytes.Join(dataLines, nil)
	out := make([]byte, base64.StdEncoding.DecodedLen(len(b64)))
	n, err := base64.StdEncoding.Decode(out, b64)
	if err != nil {
		return "", nil, ErrArmor
	}
	out = out[:n]

	if len(crcGiven) == 3 {
		crc := crc24(out)
		if byte(crc>>16) != crcGiven[0] || byte(crc>>8) != crcGiven[1] || byte(crc) != crcGiven[2] {
			return "", nil, ErrArmor
		}
	}
	return blockType, out, nil
}

// DecodeType decodes an armored block and checks it carries the wanted type.
func DecodeType(in []byte, blockType string) ([]byte, error) {
	bt, raw, err := Decode(in)
	if err != nil {
		return nil, err
	}
	if bt != blockType {
		return nil, fmt.Errorf("armor: expected %q block, found %q", blockType, bt)
	}
	return raw, nil
}
