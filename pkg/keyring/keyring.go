package keyring

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"example.com/pgpwrap/pkg/util/perm"
)

// Entry records one generated ECDH key pair.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Curve       string    `json:"curve"`
	PublicPath  string    `json:"pub_path"`
	SecretPath  string    `json:"key_path"`
	Created     time.Time `json:"created"`
	Revoked     bool      `json:"revoked"`
}

type Store struct {
	Entries []Entry `json:"entries"`
}

var ErrNotFound = errors.New("keyring: key not found")

func load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func save(path string, s *Store) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// Register adds or replaces the entry for a fingerprint. The secret key
// file must already be locked down to 0600.
func Register(path string, e Entry) error {
	if err := perm.Check0600(e.SecretPath); err != nil {
		return err
	}
	s, err := load(path)
	if err != nil {
		return err
	}
	e.Created = time.Now().UTC()
	for i := range s.Entries {
		if s.Entries[i].Fingerprint == e.Fingerprint {
			s.Entries[i] = e
			return save(path, s)
		}
	}
	s.Entries = append(s.Entries, e)
	return save(path, s)
}

// Lookup finds a non-revoked entry by fingerprint.
func Lookup(path, fingerprint string) (*Entry, error) {
	s, err := load(path)
	if err != nil {
		return nil, err
	}
	for i := range s.Entries {
		if s.Entries[i].Fingerprint == fingerprint && !s.Entries[i].Revoked {
			return &s.Entries[i], nil
		}
	}
	return nil, ErrNotFound
}

// Revoke marks a key unusable without deleting its files.
func Revoke(path, fingerprint string) error {
	s, err := load(path)
	if err != nil {
		return err
	}
	for i := range s.Entries {
		if s.Entries[i].Fingerprint == fingerprint {
			s.Entries[i].Revoked = true
			return save(path, s)
		}
	}
	return ErrNotFound
}

// List returns every entry.
func List(path string) ([]Entry, error) {
	s, err := load(path)
	if err != nil {
		return nil, err
	}
	return s.Entries, nil
}
