// Package directory implements the peer-discovery service that maps
// public keys to reachable endpoints.
//
// Services announce themselves with a signed record; callers resolve a
// public key to an endpoint before issuing a request. Announcements are
// persisted through a Store, with PostgreSQL and in-memory backends.
// The client side keeps a local cache refreshed in the background.
package directory
