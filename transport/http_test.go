package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auctionet/auctionet/crypto"
)

type staticResolver struct {
	endpoint string
}

func (r *staticResolver) Resolve(context.Context, crypto.PublicKey) (string, error) {
	return r.endpoint, nil
}

func TestHTTPRoundTrip(t *testing.T) {
	var gotOperation string
	var gotCaller crypto.PublicKey

	handler := func(ctx context.Context, operation string, payload []byte, caller crypto.PublicKey) ([]byte, error) {
		gotOperation = operation
		gotCaller = caller
		return []byte(`{"ok":true}`), nil
	}

	responder, err := NewHTTPResponder(handler, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	responder.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	selfKey, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	serverKey, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	requester, err := NewHTTPRequester(&staticResolver{endpoint: srv.URL}, selfKey, nil)
	require.NoError(t, err)

	resp, err := requester.Request(context.Background(), serverKey, "placeBid", []byte(`{"id":"a1"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp))
	assert.Equal(t, "placeBid", gotOperation)
	assert.True(t, selfKey.Equal(gotCaller))
}

func TestHTTPResponderRejectsBadCallerKey(t *testing.T) {
	handler := func(ctx context.Context, operation string, payload []byte, caller crypto.PublicKey) ([]byte, error) {
		return []byte(`{}`), nil
	}
	responder, err := NewHTTPResponder(handler, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	responder.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/rpc/placeBid", strings.NewReader("{}"))
	req.Header.Set(HeaderCallerKey, "zz-not-hex")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPResponderHandlerError(t *testing.T) {
	handler := func(ctx context.Context, operation string, payload []byte, caller crypto.PublicKey) ([]byte, error) {
		return nil, errors.New("unknown operation")
	}
	responder, err := NewHTTPResponder(handler, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	responder.RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/rpc/nope", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignedEnvelopeRoundTrip(t *testing.T) {
	type announcement struct {
		Endpoint string `json:"endpoint"`
	}

	pub, priv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	signed, err := NewSigned(priv, &announcement{Endpoint: "http://localhost:9000"})
	require.NoError(t, err)

	obj, signer, err := signed.Recover()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", obj.Endpoint)
	assert.True(t, pub.Equal(signer))

	// Tampering with the object must break verification.
	signed.Object.Endpoint = "http://evil:9000"
	_, _, err = signed.Recover()
	require.Error(t, err)
}
