package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auctionet/auctionet/crypto"
)

func TestGetOrCreateSeedStable(t *testing.T) {
	ctx := context.Background()
	log := NewMemorySeedLog()

	store, err := NewStore(log)
	require.NoError(t, err)

	seed1, err := store.GetOrCreateSeed(ctx, RoleService)
	require.NoError(t, err)
	require.Len(t, seed1, crypto.SeedSize)

	seed2, err := store.GetOrCreateSeed(ctx, RoleService)
	require.NoError(t, err)
	assert.Equal(t, seed1, seed2)

	// Roles are independent seeds.
	network, err := store.GetOrCreateSeed(ctx, RoleNetwork)
	require.NoError(t, err)
	assert.NotEqual(t, seed1, network)
}

// TestIdentityStableAcrossRestarts simulates two process startups over
// the same durable log: both must derive the same public key.
func TestIdentityStableAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	log := NewMemorySeedLog()

	store1, err := NewStore(log)
	require.NoError(t, err)
	pub1, _, err := store1.ServiceKeyPair(ctx)
	require.NoError(t, err)

	store2, err := NewStore(log)
	require.NoError(t, err)
	pub2, _, err := store2.ServiceKeyPair(ctx)
	require.NoError(t, err)

	assert.True(t, pub1.Equal(pub2))

	net1, _, err := store1.NetworkKeyPair(ctx)
	require.NoError(t, err)
	net2, _, err := store2.NetworkKeyPair(ctx)
	require.NoError(t, err)
	assert.Equal(t, net1, net2)
}

func TestStoreRejectsNilLog(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestStorePropagatesLogFailure(t *testing.T) {
	store, err := NewStore(&failingLog{})
	require.NoError(t, err)

	_, err = store.GetOrCreateSeed(context.Background(), RoleService)
	require.Error(t, err)
}

type failingLog struct{}

func (f *failingLog) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("log unavailable")
}

func (f *failingLog) Append(context.Context, string, []byte) error {
	return errors.New("log unavailable")
}

func TestFileSeedLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "seeds.log")

	log, err := NewFileSeedLog(path)
	require.NoError(t, err)

	_, err = log.Get(ctx, "dht-seed")
	require.ErrorIs(t, err, ErrSeedNotFound)

	seed, err := crypto.NewSeed()
	require.NoError(t, err)
	require.NoError(t, log.Append(ctx, "dht-seed", seed))

	got, err := log.Get(ctx, "dht-seed")
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	// Appends to an existing key never replace the first value.
	other, err := crypto.NewSeed()
	require.NoError(t, err)
	require.NoError(t, log.Append(ctx, "dht-seed", other))

	got, err = log.Get(ctx, "dht-seed")
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	// A fresh handle over the same file sees the same data.
	reopened, err := NewFileSeedLog(path)
	require.NoError(t, err)
	got, err = reopened.Get(ctx, "dht-seed")
	require.NoError(t, err)
	assert.Equal(t, seed, got)
}

func TestFileSeedLogMultipleKeys(t *testing.T) {
	ctx := context.Background()
	log, err := NewFileSeedLog(filepath.Join(t.TempDir(), "seeds.log"))
	require.NoError(t, err)

	store, err := NewStore(log)
	require.NoError(t, err)

	service, err := store.GetOrCreateSeed(ctx, RoleService)
	require.NoError(t, err)
	network, err := store.GetOrCreateSeed(ctx, RoleNetwork)
	require.NoError(t, err)

	assert.NotEqual(t, service, network)

	again, err := store.GetOrCreateSeed(ctx, RoleService)
	require.NoError(t, err)
	assert.Equal(t, service, again)
}
