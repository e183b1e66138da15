// Package service binds the named wire operations to auction registry
// calls.
//
// The dispatcher accepts an (operation, payload, caller) triple,
// decodes and validates the payload, delegates to the registry and
// encodes the outcome. Domain rejections, a duplicate id or a too-low
// bid, travel back as well-formed response payloads; the only
// transport-level failure is an operation the service does not
// recognize.
//
// Validation is deliberately two-tier: the service rejects missing or
// malformed fields before the registry runs its own argument checks.
package service
