package transport

import (
	"context"

	"github.com/auctionet/auctionet/crypto"
)

// Resolver turns a service public key into a reachable endpoint. The
// directory client is the production implementation.
type Resolver interface {
	Resolve(ctx context.Context, key crypto.PublicKey) (string, error)
}

// Requester delivers a request to the service addressed by key and
// returns the opaque response payload. Transport faults surface as
// errors; domain rejections ride inside the payload.
type Requester interface {
	Request(ctx context.Context, key crypto.PublicKey, operation string, payload []byte) ([]byte, error)
}

// HandlerFunc is the serving-side contract: the coordination service's
// dispatch entry point. A returned error is a transport-level fault;
// everything else is a well-formed response payload.
type HandlerFunc func(ctx context.Context, operation string, payload []byte, caller crypto.PublicKey) ([]byte, error)
