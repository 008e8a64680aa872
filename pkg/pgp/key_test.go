package pgp

import (
	"bytes"
	"crypto/rand"
	"testing"
	"time"

	"example.com/pgpwrap/pkg/crypto/ecdh"
)

func genTestKey(t *testing.T, curveName string) (*ecdh.PrivateKey, time.Time) {
	t.Helper()
	curve, err := ecdh.CurveByName(curveName)
	if err != nil {
		t.Fatalf("CurveByName: %v", err)
	}
	priv, err := ecdh.GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return priv, time.Unix(1700000000, 0).UTC()
}

func TestPublicKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"nistp256", "brainpoolP512r1", "cv25519"} {
		priv, created := genTestKey(t, name)
		pkt := BuildPublicKeyV4(&priv.PublicKey, created)

		tag, body, rest, err := ReadPacket(pkt)
		if err != nil {
			t.Fatalf("%s: ReadPacket: %v", name, err)
		}
		if tag != TagPublicKey || len(rest) != 0 {
			t.Fatalf("%s: tag %d rest %d", name, tag, len(rest))
		}
		key, err := ParseKeyV4(tag, body)
		if err != nil {
			t.Fatalf("%s: ParseKeyV4: %v", name, err)
		}
		if key.Public.Curve.Name != name {
			t.Fatalf("%s: parsed curve %s", name, key.Public.Curve.Name)
		}
		if !bytes.Equal(key.Public.Point.Bytes(), priv.Point.Bytes()) {
			t.Fatalf("%s: point mismatch", name)
		}
		if key.Public.KDF != priv.KDF {
			t.Fatalf("%s: kdf mismatch", name)
		}
		if !key.Created.Equal(created) {
			t.Fatalf("%s: created %v, want %v", name, key.Created, created)
		}
		priv.Destroy()
	}
}

func TestSecretKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"nistp384", "x448"} {
		priv, created := genTestKey(t, name)
		wantD := append([]byte(nil), priv.D.Bytes()...)
		pkt := BuildSecretKeyV4(priv, created)

		tag, body, _, err := ReadPacket(pkt)
		if err != nil {
			t.Fatalf("%s: ReadPacket: %v", name, err)
		}
		if tag != TagSecretKey {
			t.Fatalf("%s: tag %d", name, tag)
		}
		key, err := ParseKeyV4(tag, body)
		if err != nil {
			t.Fatalf("%s: ParseKeyV4: %v", name, err)
		}
		if key.Private == nil {
			t.Fatalf("%s: no private key parsed", name)
		}
		if !bytes.Equal(key.Private.D.Bytes(), wantD) {
			t.Fatalf("%s: scalar mismatch", name)
		}
		key.Private.Destroy()
		priv.Destroy()
	}
}

func TestFingerprintStable(t *testing.T) {
	priv, created := genTestKey(t, "nistp256")
	defer priv.Destroy()

	fp1 := FingerprintV4(&priv.PublicKey, created)
	fp2 := FingerprintV4(&priv.PublicKey, created)
	if len(fp1) != 20 || !bytes.Equal(fp1, fp2) {
		t.Fatalf("fingerprint unstable or wrong size: %x / %x", fp1, fp2)
	}

	// parsing the packet must reproduce the same fingerprint
	tag, body, _, err := ReadPacket(BuildPublicKeyV4(&priv.PublicKey, created))
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	key, err := ParseKeyV4(tag, body)
	if err != nil {
		t.Fatalf("ParseKeyV4: %v", err)
	}
	if !bytes.Equal(key.Fingerprint, fp1) {
		t.Fatalf("fingerprint mismatch after parse: %x / %x", key.Fingerprint, fp1)
	}
	if !bytes.Equal(KeyIDFromFingerprint(fp1), fp1[12:]) {
		t.Fatal("key id is not the low 64 bits")
	}
}

func TestSecretKeyChecksumTamper(t *testing.T) {
	priv, created := genTestKey(t, "nistp256")
	defer priv.Destroy()
	pkt := BuildSecretKeyV4(priv, created)
	tag, body, _, err := ReadPacket(pkt)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	mangled := append([]byte(nil), body...)
	mangled[len(mangled)-1] ^= 0x01
	if _, err := ParseKeyV4(tag, mangled); err == nil {
		t.Fatal("accepted tampered secret key checksum")
	}
}

func TestParseKeyRejectsUnknownCurve(t *testing.T) {
	// minimal body with an OID no registry entry matches
	body := []byte{4, 0, 0, 0, 0, PKALG_ECDH, 2, 0xDE, 0xAD}
	if _, err := ParseKeyV4(TagPublicKey, body); err == nil {
		t.Fatal("accepted unknown curve")
	}
}
