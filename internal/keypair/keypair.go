// Package keypair loads, generates and persists the wallet key pair.
//
// A key pair is stored as a small JSON document holding the hex encoded
// ed25519 public key and secret key:
//
//	{"publicKey": "<64 hex chars>", "secretKey": "<128 hex chars>"}
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/mrz1836/beacon/internal/fileutil"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// filePermissions is the permission mode for key pair files.
const filePermissions = 0o600

// KeyPair is a wallet credential. It is treated as immutable once loaded.
type KeyPair struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// Generate creates a fresh random key pair.
func Generate() (*KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating key pair: %w", err)
	}
	return FromPrivateKey(priv)
}

// FromPrivateKey builds a key pair from an ed25519 private key.
func FromPrivateKey(priv ed25519.PrivateKey) (*KeyPair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, invalid("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, invalid("unexpected public key type")
	}
	return &KeyPair{
		PublicKey: hex.EncodeToString(pub),
		SecretKey: hex.EncodeToString(priv),
	}, nil
}

// Validate checks both keys decode and that the public key belongs to the
// secret key.
func (kp *KeyPair) Validate() error {
	_, err := kp.PrivateKey()
	return err
}

// PrivateKey decodes and checks the secret key.
func (kp *KeyPair) PrivateKey() (ed25519.PrivateKey, error) {
	if kp == nil {
		return nil, invalid("key pair is nil")
	}

	secret, err := hex.DecodeString(kp.SecretKey)
	if err != nil {
		return nil, invalid("secret key is not hex: %v", err)
	}
	if len(secret) != ed25519.PrivateKeySize {
		return nil, invalid("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(secret))
	}

	public, err := kp.PublicKeyBytes()
	if err != nil {
		return nil, err
	}

	priv := ed25519.PrivateKey(secret)
	derived, ok := priv.Public().(ed25519.PublicKey)
	if !ok || !bytes.Equal(derived, public) {
		return nil, invalid("public key does not match secret key")
	}

	return priv, nil
}

// PublicKeyBytes decodes the public key.
func (kp *KeyPair) PublicKeyBytes() (ed25519.PublicKey, error) {
	pub, err := hex.DecodeString(kp.PublicKey)
	if err != nil {
		return nil, invalid("public key is not hex: %v", err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, invalid("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	return pub, nil
}

// Load reads and validates the key pair at path.
// A missing file yields ErrKeyPairNotFound.
func Load(path string) (*KeyPair, error) {
	var kp KeyPair
	if err := fileutil.ReadJSON(path, &kp); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, beaconerr.WithDetails(beaconerr.ErrKeyPairNotFound, map[string]string{"path": path})
		}
		return nil, beaconerr.Wrap(beaconerr.ErrInvalidKeyPair, "reading %s: %v", path, err)
	}
	if err := kp.Validate(); err != nil {
		return nil, err
	}
	return &kp, nil
}

// Save validates kp and writes it atomically to path.
func Save(path string, kp *KeyPair) error {
	if err := kp.Validate(); err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(path, kp, filePermissions); err != nil {
		return fmt.Errorf("saving key pair: %w", err)
	}
	return nil
}

// LoadOrCreate returns the key pair persisted at path, generating and saving a
// new one when the file does not exist. created reports whether a new key pair
// was written.
func LoadOrCreate(path string) (kp *KeyPair, created bool, err error) {
	kp, err = Load(path)
	if err == nil {
		return kp, false, nil
	}
	if !errors.Is(err, beaconerr.ErrKeyPairNotFound) {
		return nil, false, err
	}

	kp, err = Generate()
	if err != nil {
		return nil, false, err
	}
	if err := Save(path, kp); err != nil {
		return nil, false, err
	}
	return kp, true, nil
}

// Resolve picks the key pair to use: an explicit one wins, then the file at
// path, then a freshly generated one persisted to path.
func Resolve(explicit *KeyPair, path string) (kp *KeyPair, created bool, err error) {
	if explicit != nil {
		if err := explicit.Validate(); err != nil {
			return nil, false, err
		}
		return explicit, false, nil
	}
	return LoadOrCreate(path)
}

func invalid(format string, args ...any) error {
	return beaconerr.Wrap(beaconerr.ErrInvalidKeyPair, format, args...)
}
