package auction

import (
	"errors"
	"sync"
)

// Domain rejections. These are expected, caller-actionable outcomes and
// are never fatal to the process; the service layer translates them
// into structured response payloads.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("auction with the same id already exists")
	ErrNotFound        = errors.New("auction not found")
	ErrClosed          = errors.New("auction is closed")
	ErrBidTooLow       = errors.New("bid must be higher than current highest bid")
	ErrNotOwner        = errors.New("requester is not the owner of this auction")
	ErrAlreadyClosed   = errors.New("auction already closed")
)

// Status tracks the lifecycle of an auction. There are only two states
// and Closed is terminal.
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	}
	return "unknown"
}

// Auction is a single sale process for one item.
//
// ReservePrice is informational only: it is validated positive at
// creation but never compared against bids. HighestBidder is the hex
// public key of the leading bidder, empty while no bid was placed.
type Auction struct {
	ID            string
	Item          string
	ReservePrice  float64
	HighestBid    float64
	HighestBidder string
	Owner         string
	Status        Status
}

// Settlement is the outcome captured when an auction closes. An auction
// that received no bids settles with an empty winner and price 0.
type Settlement struct {
	Winner string
	Price  float64
}

// Registry is the authoritative store of live auctions.
//
// A single mutex guards the whole map. Operations are pure in-memory
// state transitions that complete in bounded time, so per-id locking is
// not warranted at this scale.
type Registry struct {
	mu       sync.Mutex
	auctions map[string]*Auction
}

// NewRegistry creates an empty auction registry.
func NewRegistry() *Registry {
	return &Registry{
		auctions: make(map[string]*Auction),
	}
}

// Open inserts a new auction with the given id.
//
// The existence check and the insert happen under one lock acquisition,
// so a concurrent Open for the same id observes either the inserted
// record or the slot it is about to fill, never an in-between state.
func (r *Registry) Open(id, item string, reservePrice float64, owner string) error {
	if id == "" || item == "" || owner == "" || reservePrice <= 0 {
		return ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[id]; exists {
		return ErrAlreadyExists
	}

	r.auctions[id] = &Auction{
		ID:           id,
		Item:         item,
		ReservePrice: reservePrice,
		Owner:        owner,
		Status:       StatusOpen,
	}
	return nil
}

// Bid records a new highest bid and returns it.
//
// Equal bids are rejected: amount must be strictly greater than the
// current highest, so the first bidder at a price level keeps the slot.
func (r *Registry) Bid(id string, amount float64, bidder string) (float64, error) {
	if id == "" || bidder == "" || amount <= 0 {
		return 0, ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.auctions[id]
	if !exists {
		return 0, ErrNotFound
	}
	if a.Status == StatusClosed {
		return 0, ErrClosed
	}
	if amount <= a.HighestBid {
		return 0, ErrBidTooLow
	}

	a.HighestBid = amount
	a.HighestBidder = bidder
	return a.HighestBid, nil
}

// Close settles an auction and removes it from the registry.
//
// Only the recorded owner may close. The settlement captures the
// leading bid at the moment of closing; a never-bid auction closes with
// no winner. Because the record is removed, a second Close (or any
// later Bid) on the same id reports NotFound, and the id becomes
// re-openable.
func (r *Registry) Close(id, requester string) (Settlement, error) {
	if id == "" || requester == "" {
		return Settlement{}, ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.auctions[id]
	if !exists {
		return Settlement{}, ErrNotFound
	}
	if requester != a.Owner {
		return Settlement{}, ErrNotOwner
	}
	if a.Status == StatusClosed {
		return Settlement{}, ErrAlreadyClosed
	}

	a.Status = StatusClosed
	result := Settlement{
		Winner: a.HighestBidder,
		Price:  a.HighestBid,
	}
	delete(r.auctions, id)
	return result, nil
}

// Get returns a snapshot of a live auction, mainly for diagnostics.
func (r *Registry) Get(id string) (Auction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.auctions[id]
	if !exists {
		return Auction{}, false
	}
	return *a, true
}

// Len returns the number of live auctions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.auctions)
}
