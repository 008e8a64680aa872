package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/pgpwrap/pkg/armor"
	"example.com/pgpwrap/pkg/compress"
	"example.com/pgpwrap/pkg/crypto/ecdh"
	"example.com/pgpwrap/pkg/keyring"
	"example.com/pgpwrap/pkg/pgp"
	"example.com/pgpwrap/pkg/util/securemem"
)

var outPath string

func writeOut(b []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(b)
	return err
}

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
func fatalf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "keygen":
			keygen(os.Args[2:])
			return
		case "decrypt":
			decrypt(os.Args[2:])
			return
		case "encrypt":
			encrypt(os.Args[2:])
			return
		}
	}
	encrypt(os.Args[1:])
}

func readInput(rest []string) []byte {
	if len(rest) > 0 && rest[0] != "-" {
		b, err := os.ReadFile(rest[0])
		fatalIf(err)
		return b
	}
	b, err := io.ReadAll(os.Stdin)
	fatalIf(err)
	return b
}

// loadKeyFile reads an armored key file and parses the single key packet.
func loadKeyFile(path, blockType string) *pgp.ParsedKey {
	raw, err := os.ReadFile(path)
	fatalIf(err)
	pkt, err := armor.DecodeType(raw, blockType)
	fatalIf(err)
	tag, body, _, err := pgp.ReadPacket(pkt)
	fatalIf(err)
	key, err := pgp.ParseKeyV4(tag, body)
	fatalIf(err)
	return key
}

func symByName(name string) (byte, int) {
	switch strings.ToLower(name) {
	case "aes128":
		return pgp.SYM_AES128, 16
	case "aes192":
		return pgp.SYM_AES192, 24
	case "aes256":
		return pgp.SYM_AES256, 32
	default:
		fatalf("unsupported -sym: %s", name)
		return 0, 0
	}
}

func keygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	var curveName string
	var out string
	var ringPath string
	fs.StringVar(&curveName, "curve", "nistp256",
		"curve: "+strings.Join(ecdh.CurveNames(), "|"))
	fs.StringVar(&out, "out", "", "file prefix for <prefix>.pub.asc / <prefix>.key.asc")
	fs.StringVar(&ringPath, "keyring", "", "register the key in this keyring file")
	fatalIf(fs.Parse(args))

	curve, err := ecdh.CurveByName(strings.ToLower(curveName))
	fatalIf(err)

	priv, err := ecdh.GenerateKey(rand.Reader, curve)
	fatalIf(err)
	defer priv.Destroy()

	created := time.Now().UTC()
	fp := pgp.FingerprintV4(&priv.PublicKey, created)
	pubArm := armor.Encode(armor.TypePublicKey, pgp.BuildPublicKeyV4(&priv.PublicKey, created), nil)
	secArm := armor.Encode(armor.TypePrivateKey, pgp.BuildSecretKeyV4(priv, created), nil)

	if out == "" {
		fmt.Printf("fingerprint: %X\n", fp)
		os.Stdout.Write(pubArm)
		os.Stdout.Write(secArm)
		return
	}
	_ = os.MkdirAll(filepath.Dir(out), 0o755)
	fatalIf(os.WriteFile(out+".pub.asc", pubArm, 0o644))
	fd, err := os.OpenFile(out+".key.asc", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	fatalIf(err)
	_, err = fd.Write(secArm)
	fatalIf(err)
	fatalIf(fd.Close())
	fmt.Printf("fingerprint: %X\n", fp)

	if ringPath != "" {
		fatalIf(keyring.Register(ringPath, keyring.Entry{
			Fingerprint: hex.EncodeToString(fp),
			Curve:       curve.Name,
			PublicPath:  out + ".pub.asc",
			SecretPath:  out + ".key.asc",
		}))
	}
}

func encrypt(args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	var outArmor bool
	var sym string
	var comp string
	var pubPath string
	fs.BoolVar(&outArmor, "armor", false, "ASCII armor output (default: binary)")
	fs.StringVar(&sym, "sym", "aes256", "symmetric: aes128|aes192|aes256")
	fs.StringVar(&comp, "compress", "none", "compression: none|zip|zlib|bzip2")
	fs.StringVar(&pubPath, "recipient", "", "recipient public key file (.pub.asc)")
	fs.StringVar(&outPath, "out", "", "output file (default: <input>.pgp, or <input>.asc with -armor; stdout when reading stdin)")
	fatalIf(fs.Parse(args))

	if pubPath == "" {
		fatalf("missing -recipient")
	}
	codec, err := compress.ByName(strings.ToLower(comp))
	fatalIf(err)

	plaintext := readInput(fs.Args())
	if outPath == "" && len(fs.Args()) > 0 && fs.Args()[0] != "-" {
		if outArmor {
			outPath = fs.Args()[0] + ".asc"
		} else {
			outPath = fs.Args()[0] + ".pgp"
		}
	}

	key := loadKeyFile(pubPath, armor.TypePublicKey)
	symID, keyLen := symByName(sym)

	sessionKey := securemem.NewRandom(keyLen)
	defer sessionKey.Destroy()

	pkesk, err := pgp.BuildPKESKv3(&key.Public, key.Fingerprint, symID, sessionKey.Bytes())
	fatalIf(err)
	content, err := pgp.SealMessage(symID, sessionKey.Bytes(), codec, plaintext)
	fatalIf(err)

	msg := append(pkesk, content...)
	if outArmor {
		msg = armor.Encode(armor.TypeMessage, msg, nil)
	}
	fatalIf(writeOut(msg))
}

func decrypt(args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	var keyPath string
	fs.StringVar(&keyPath, "key", "", "secret key file (.key.asc)")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	fatalIf(fs.Parse(args))

	if keyPath == "" {
		fatalf("missing -key")
	}
	key := loadKeyFile(keyPath, armor.TypePrivateKey)
	if key.Private == nil {
		fatalf("%s holds no secret material", keyPath)
	}
	defer key.Private.Destroy()

	msg := readInput(fs.Args())
	if dec, err := armor.DecodeType(msg, armor.TypeMessage); err == nil {
		msg = dec
	}

	tag, body, rest, err := pgp.ReadPacket(msg)
	fatalIf(err)
	if tag != pgp.TagPKESK {
		fatalf("first packet is not PKESK")
	}
	symID, sessionKey, err := pgp.DecodePKESKv3(body, key.Private, key.Fingerprint)
	fatalIf(err)
	defer sessionKey.Destroy()

	tag2, body2, _, err := pgp.ReadPacket(rest)
	fatalIf(err)
	if tag2 != pgp.TagOCBED {
		fatalf("unsupported data tag: %d", tag2)
	}
	if len(body2) > 1 && body2[1] != symID {
		fatalf("pkesk and data packet disagree on the cipher")
	}
	pt, err := pgp.OpenMessage(body2, sessionKey.Bytes())
	fatalIf(err)
	fatalIf(writeOut(pt))
}
