// Package transport carries opaque request/response payloads between a
// caller and the coordination service it addresses by public key.
//
// The capability surface is two small interfaces: a Resolver that turns
// a public key into a reachable endpoint, and a Requester that delivers
// an (operation, payload) pair and returns the response bytes. The
// bundled implementation speaks HTTP with chi on the serving side, but
// nothing in the core depends on that choice.
package transport
