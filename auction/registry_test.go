package auction

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDuplicateID(t *testing.T) {
	r := NewRegistry()

	err := r.Open("Pic1", "Picasso painting", 65, "ownerA")
	require.NoError(t, err)

	// Different item and price must not matter, the id is taken.
	err = r.Open("Pic1", "Monet painting", 100, "ownerB")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestOpenValidation(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		id      string
		item    string
		reserve float64
		owner   string
	}{
		{"empty id", "", "item", 10, "owner"},
		{"empty item", "a1", "", 10, "owner"},
		{"empty owner", "a1", "item", 10, ""},
		{"zero reserve", "a1", "item", 0, "owner"},
		{"negative reserve", "a1", "item", -5, "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Open(tt.id, tt.item, tt.reserve, tt.owner)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	assert.Equal(t, 0, r.Len())
}

func TestBidMonotonic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "owner"))

	highest, err := r.Bid("a1", 20, "bidderX")
	require.NoError(t, err)
	assert.Equal(t, 20.0, highest)

	highest, err = r.Bid("a1", 30, "bidderY")
	require.NoError(t, err)
	assert.Equal(t, 30.0, highest)

	// Lower and equal bids leave the state unchanged.
	_, err = r.Bid("a1", 30, "bidderZ")
	require.ErrorIs(t, err, ErrBidTooLow)
	_, err = r.Bid("a1", 5, "bidderZ")
	require.ErrorIs(t, err, ErrBidTooLow)

	a, ok := r.Get("a1")
	require.True(t, ok)
	assert.Equal(t, 30.0, a.HighestBid)
	assert.Equal(t, "bidderY", a.HighestBidder)
}

func TestBidValidation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "owner"))

	_, err := r.Bid("a1", 0, "bidder")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = r.Bid("a1", -1, "bidder")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = r.Bid("a1", 10, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = r.Bid("missing", 10, "bidder")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseOwnerOnly(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "ownerA"))
	_, err := r.Bid("a1", 50, "bidderX")
	require.NoError(t, err)

	_, err = r.Close("a1", "ownerB")
	require.ErrorIs(t, err, ErrNotOwner)

	// The failed close must not disturb bidding state.
	a, ok := r.Get("a1")
	require.True(t, ok)
	assert.Equal(t, 50.0, a.HighestBid)
	assert.Equal(t, "bidderX", a.HighestBidder)
	assert.Equal(t, StatusOpen, a.Status)
}

func TestCloseSettlesAndRemoves(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "ownerA"))
	_, err := r.Bid("a1", 50, "bidderX")
	require.NoError(t, err)

	settlement, err := r.Close("a1", "ownerA")
	require.NoError(t, err)
	assert.Equal(t, "bidderX", settlement.Winner)
	assert.Equal(t, 50.0, settlement.Price)

	// The record is removed, so a second close reports NotFound rather
	// than AlreadyClosed, and the id becomes re-openable.
	_, err = r.Close("a1", "ownerA")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.Bid("a1", 60, "bidderY")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, r.Open("a1", "another item", 5, "ownerC"))
}

func TestCloseWithoutBids(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "ownerA"))

	settlement, err := r.Close("a1", "ownerA")
	require.NoError(t, err)
	assert.Empty(t, settlement.Winner)
	assert.Zero(t, settlement.Price)
}

func TestPicassoScenario(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Open("Pic1", "Picasso painting", 65, "ownerA"))

	highest, err := r.Bid("Pic1", 50, "bidderX")
	require.NoError(t, err)
	assert.Equal(t, 50.0, highest)

	_, err = r.Bid("Pic1", 40, "bidderY")
	require.ErrorIs(t, err, ErrBidTooLow)

	_, err = r.Close("Pic1", "ownerB")
	require.ErrorIs(t, err, ErrNotOwner)

	settlement, err := r.Close("Pic1", "ownerA")
	require.NoError(t, err)
	assert.Equal(t, Settlement{Winner: "bidderX", Price: 50}, settlement)

	_, err = r.Bid("Pic1", 100, "bidderZ")
	require.ErrorIs(t, err, ErrNotFound)
}

// TestConcurrentBidsNoLostUpdate exercises the atomicity of Bid: with N
// concurrent bids of distinct amounts, the final highest bid must be
// the maximum amount, and the recorded bidder must be the one that
// submitted it.
func TestConcurrentBidsNoLostUpdate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Open("a1", "item", 10, "owner"))

	const n = 100
	var wg sync.WaitGroup
	accepted := make([]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := float64(i + 1)
			_, err := r.Bid("a1", amount, fmt.Sprintf("bidder-%d", i))
			if err == nil {
				accepted[i] = true
			} else {
				assert.ErrorIs(t, err, ErrBidTooLow)
			}
		}(i)
	}
	wg.Wait()

	// The highest amount always satisfies amount > highestBid at its
	// logical position, so it must have been accepted.
	assert.True(t, accepted[n-1])

	a, ok := r.Get("a1")
	require.True(t, ok)
	assert.Equal(t, float64(n), a.HighestBid)
	assert.Equal(t, fmt.Sprintf("bidder-%d", n-1), a.HighestBidder)
}
