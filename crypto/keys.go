package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// SeedSize is the length of the secret seed a key pair is derived from.
const SeedSize = 32

// PublicKey identifies a participant or service on the network.
// Public keys double as addresses: peers resolve them to reachable
// endpoints through the directory. The implementation uses Ed25519.
type PublicKey []byte

// NewPublicKeyFromBytes creates a PublicKey from a byte slice.
// The input is copied so later mutation of data cannot affect the key.
func NewPublicKeyFromBytes(data []byte) PublicKey {
	pk := make([]byte, len(data))
	copy(pk, data)
	return PublicKey(pk)
}

// NewPublicKeyFromString creates a PublicKey from a hex-encoded string.
func NewPublicKeyFromString(data string) (PublicKey, error) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(raw))
	}
	return PublicKey(raw), nil
}

// Bytes returns the raw key material.
func (pk PublicKey) Bytes() []byte {
	return pk
}

// Equal reports whether two public keys contain the same bytes.
func (pk PublicKey) Equal(other PublicKey) bool {
	return subtle.ConstantTimeCompare(pk, other) == 1
}

// String returns the hex encoding of the key. This is the canonical
// form used in payloads, logs and as map keys.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk)
}

// PrivateKey is the signing counterpart of a PublicKey. Private keys
// never leave the process that derived them.
type PrivateKey []byte

// NewPrivateKeyFromBytes creates a PrivateKey from a byte slice.
func NewPrivateKeyFromBytes(data []byte) PrivateKey {
	sk := make([]byte, len(data))
	copy(sk, data)
	return PrivateKey(sk)
}

// Bytes returns the raw key material. Handle with care.
func (sk PrivateKey) Bytes() []byte {
	return sk
}

// PublicKey derives the public key corresponding to this private key.
func (sk PrivateKey) PublicKey() (PublicKey, error) {
	if len(sk) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid private key size")
	}
	return PublicKey(sk[32:]), nil
}

// Signature is an Ed25519 signature over a serialized message.
type Signature []byte

// NewSignature creates a Signature from a byte slice.
func NewSignature(data []byte) Signature {
	sig := make([]byte, len(data))
	copy(sig, data)
	return Signature(sig)
}

// Bytes returns the signature as a byte slice.
func (s Signature) Bytes() []byte {
	return []byte(s)
}

// Verify checks the signature against the given data and public key.
func (s Signature) Verify(publicKey PublicKey, data []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), data, s)
}

// String returns the hex encoding of the signature.
func (s Signature) String() string {
	return hex.EncodeToString(s)
}

// Sign signs data with the given private key.
func Sign(privateKey PrivateKey, data []byte) (Signature, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid private key size")
	}
	return Signature(ed25519.Sign(ed25519.PrivateKey(privateKey), data)), nil
}

// GenerateKeyPair generates a fresh Ed25519 key pair from the system's
// entropy source. Used for throwaway identities, mostly in tests.
func GenerateKeyPair() (PublicKey, PrivateKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return PublicKey(publicKey), PrivateKey(privateKey), nil
}

// NewSeed returns a cryptographically random 32-byte seed.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("reading seed entropy: %w", err)
	}
	return seed, nil
}

// KeyPairFromSeed derives a deterministic Ed25519 key pair from a seed.
// The same seed always yields the same key pair, which is what keeps a
// service's public identity stable across restarts.
func KeyPairFromSeed(seed []byte) (PublicKey, PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	return PublicKey(privateKey[32:]), PrivateKey(privateKey), nil
}

// NetworkKeyPairFromSeed derives a deterministic X25519 key pair from a
// seed. This is the identity a node presents to the peer-discovery
// layer, kept separate from the service's signing identity.
func NetworkKeyPairFromSeed(seed []byte) (public, private [32]byte, err error) {
	if len(seed) != SeedSize {
		return public, private, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	copy(private[:], seed)
	private[0] &= 248
	private[31] &= 127
	private[31] |= 64
	curve25519.ScalarBaseMult(&public, &private)
	return public, private, nil
}
