package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/auctionet/auctionet/crypto"
)

// Header names used by the HTTP transport.
const (
	HeaderCallerKey = "X-Caller-Key"
	HeaderRequestID = "X-Request-Id"
)

// Maximum accepted request body. Payloads are small JSON documents;
// anything larger is not a legitimate request.
const maxPayloadBytes = 1 << 20

// HTTPResponder serves transport requests and feeds them into a
// HandlerFunc.
type HTTPResponder struct {
	handler HandlerFunc
	log     *slog.Logger
}

// NewHTTPResponder creates a responder over the given handler.
func NewHTTPResponder(handler HandlerFunc, log *slog.Logger) (*HTTPResponder, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPResponder{handler: handler, log: log}, nil
}

// RegisterRoutes registers the RPC route with the router.
func (t *HTTPResponder) RegisterRoutes(r chi.Router) {
	r.Post("/rpc/{operation}", t.handleRequest)
}

func (t *HTTPResponder) handleRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	operation := chi.URLParam(r, "operation")

	var caller crypto.PublicKey
	if rawKey := r.Header.Get(HeaderCallerKey); rawKey != "" {
		parsed, err := crypto.NewPublicKeyFromString(rawKey)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid caller key: %v", err), http.StatusBadRequest)
			return
		}
		caller = parsed
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read payload: %v", err), http.StatusBadRequest)
		return
	}

	response, err := t.handler(r.Context(), operation, payload, caller)
	if err != nil {
		// The only errors a handler returns are transport-level, an
		// operation the service does not recognize.
		t.log.Warn("request failed at transport boundary",
			"operation", operation, "requestID", r.Header.Get(HeaderRequestID), "err", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// HTTPRequester issues requests to a service addressed by public key,
// resolving the key to an endpoint through the directory.
type HTTPRequester struct {
	resolver   Resolver
	httpClient *http.Client
	selfKey    crypto.PublicKey
	log        *slog.Logger
}

// NewHTTPRequester creates a requester. selfKey identifies the caller
// to the remote service and may be nil for anonymous requests.
func NewHTTPRequester(resolver Resolver, selfKey crypto.PublicKey, log *slog.Logger) (*HTTPRequester, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPRequester{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		selfKey:    selfKey,
		log:        log,
	}, nil
}

// Request resolves key, posts the payload and returns the response
// body. A non-200 status is a transport fault.
func (t *HTTPRequester) Request(ctx context.Context, key crypto.PublicKey, operation string, payload []byte) ([]byte, error) {
	endpoint, err := t.resolver.Resolve(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", key.String(), err)
	}

	url := fmt.Sprintf("%s/rpc/%s", endpoint, operation)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if len(t.selfKey) > 0 {
		req.Header.Set(HeaderCallerKey, t.selfKey.String())
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
