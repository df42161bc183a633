package settings

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint is a deterministic digest of a settings object's canonical
// content. It is only meant for equality checks.
type Fingerprint string

// Empty reports whether no fingerprint is present.
func (f Fingerprint) Empty() bool {
	return f == ""
}

// Short returns the first 12 characters, enough for display.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}

// Encrypter computes settings fingerprints.
type Encrypter struct{}

// NewEncrypter creates a new Encrypter.
func NewEncrypter() *Encrypter {
	return &Encrypter{}
}

// Encrypt returns the SHA-256 hex digest of the canonical serialization of s.
func (*Encrypter) Encrypt(s Settings) (Fingerprint, error) {
	data, err := Canonical(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}
