package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)

	pub1, priv1, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	pub2, priv2, err := KeyPairFromSeed(seed)
	require.NoError(t, err)

	assert.True(t, pub1.Equal(pub2))
	assert.Equal(t, priv1.Bytes(), priv2.Bytes())

	other, err := NewSeed()
	require.NoError(t, err)
	pub3, _, err := KeyPairFromSeed(other)
	require.NoError(t, err)
	assert.False(t, pub1.Equal(pub3))
}

func TestKeyPairFromSeedRejectsBadLength(t *testing.T) {
	_, _, err := KeyPairFromSeed([]byte("short"))
	require.Error(t, err)
}

func TestNetworkKeyPairFromSeedDeterministic(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)

	pub1, _, err := NetworkKeyPairFromSeed(seed)
	require.NoError(t, err)
	pub2, _, err := NetworkKeyPairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, pub1, pub2)
}

func TestSignAndVerify(t *testing.T) {
	pub, priv, err := GenerateKeyPair()
	require.NoError(t, err)

	data := []byte("bid payload")
	sig, err := Sign(priv, data)
	require.NoError(t, err)

	assert.True(t, sig.Verify(pub, data))
	assert.False(t, sig.Verify(pub, []byte("tampered")))

	otherPub, _, err := GenerateKeyPair()
	require.NoError(t, err)
	assert.False(t, sig.Verify(otherPub, data))
}

func TestPublicKeyStringRoundTrip(t *testing.T) {
	pub, _, err := GenerateKeyPair()
	require.NoError(t, err)

	parsed, err := NewPublicKeyFromString(pub.String())
	require.NoError(t, err)
	assert.True(t, pub.Equal(parsed))

	_, err = NewPublicKeyFromString("not-hex")
	require.Error(t, err)

	_, err = NewPublicKeyFromString("abcd")
	require.Error(t, err)
}
