// Package auction implements the in-memory authoritative store of
// auction records.
//
// The registry owns all auction state and exposes three atomic
// operations: Open, Bid and Close. Every operation on a given auction
// id executes as a single critical section, so two concurrent bids can
// never both pass the highest-bid check against the same stale value.
//
// Auction records are ephemeral: a closed auction is removed from the
// registry, and nothing is persisted across restarts. That is a known
// limitation carried over from the protocol this service implements,
// not an accident.
package auction
