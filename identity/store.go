package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/auctionet/auctionet/crypto"
)

// ErrSeedNotFound is returned by SeedLog.Get when no value was ever
// appended under the key.
var ErrSeedNotFound = errors.New("seed not found")

// Role names a logical identity the service maintains. The key strings
// are fixed wire-level names; changing them would orphan persisted
// seeds.
type Role string

const (
	// RoleNetwork is the identity presented to the peer-discovery layer.
	RoleNetwork Role = "dht-seed"
	// RoleService is the identity requests are addressed to.
	RoleService Role = "rpc-seed"
)

// SeedLog is the capability interface over the durable append-only
// key/value log that persists seeds. Implementations must guarantee
// that the first value appended under a key is the one every later Get
// returns; Append on an existing key is a no-op.
type SeedLog interface {
	// Get returns the value stored under key, or ErrSeedNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Append durably records value under key unless the key exists.
	Append(ctx context.Context, key string, value []byte) error
}

// Store derives and persists the long-term seeds. It is the only
// component that ever sees raw seed material.
type Store struct {
	log SeedLog
}

// NewStore creates a Store backed by the given seed log.
func NewStore(log SeedLog) (*Store, error) {
	if log == nil {
		return nil, errors.New("seed log cannot be nil")
	}
	return &Store{log: log}, nil
}

// GetOrCreateSeed returns the persisted seed for a role, generating and
// appending a fresh one on first use.
//
// A storage failure here is fatal to startup by design: the service
// must not come up without a stable identity.
func (s *Store) GetOrCreateSeed(ctx context.Context, role Role) ([]byte, error) {
	seed, err := s.log.Get(ctx, string(role))
	if err == nil {
		if len(seed) != crypto.SeedSize {
			return nil, fmt.Errorf("stored seed for role %q has length %d, want %d", role, len(seed), crypto.SeedSize)
		}
		return seed, nil
	}
	if !errors.Is(err, ErrSeedNotFound) {
		return nil, fmt.Errorf("reading seed for role %q: %w", role, err)
	}

	seed, err = crypto.NewSeed()
	if err != nil {
		return nil, err
	}
	if err := s.log.Append(ctx, string(role), seed); err != nil {
		return nil, fmt.Errorf("persisting seed for role %q: %w", role, err)
	}

	// Read back rather than returning the local value: if a concurrent
	// first start won the append race, its seed is the durable one.
	seed, err = s.log.Get(ctx, string(role))
	if err != nil {
		return nil, fmt.Errorf("re-reading seed for role %q: %w", role, err)
	}
	return seed, nil
}

// ServiceKeyPair returns the Ed25519 key pair for the service identity.
func (s *Store) ServiceKeyPair(ctx context.Context) (crypto.PublicKey, crypto.PrivateKey, error) {
	seed, err := s.GetOrCreateSeed(ctx, RoleService)
	if err != nil {
		return nil, nil, err
	}
	return crypto.KeyPairFromSeed(seed)
}

// NetworkKeyPair returns the X25519 key pair for the network identity.
func (s *Store) NetworkKeyPair(ctx context.Context) (public, private [32]byte, err error) {
	seed, err := s.GetOrCreateSeed(ctx, RoleNetwork)
	if err != nil {
		return public, private, err
	}
	return crypto.NetworkKeyPairFromSeed(seed)
}
