// Package identity manages the long-term key seeds the service derives
// its network and signing identities from.
//
// Seeds live in a durable append-only key/value log. The first process
// start generates and appends a seed per role; every later start reads
// the same value back, so the public keys the service presents to the
// network are stable across restarts. The log never overwrites an
// existing key.
//
// Three log backends are provided: Postgres for deployments, a local
// append-only file for single-node setups, and an in-memory log for
// tests.
package identity
