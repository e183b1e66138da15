// Package crypto provides the key types used to identify auction
// participants and services on the network.
//
// Every participant is addressed by an Ed25519 public key rather than a
// network location. Key pairs are derived deterministically from 32-byte
// seeds so a service keeps the same public identity across restarts as
// long as its seed survives.
package crypto
