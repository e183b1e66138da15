package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/transport"
)

func setupTestDirectory(t *testing.T) (*Directory, chi.Router) {
	t.Helper()

	dir, err := New(NewMemoryStore(), nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	dir.RegisterRoutes(r)
	return dir, r
}

func signedAnnouncement(t *testing.T, endpoint string) (*transport.Signed[Announcement], crypto.PublicKey) {
	t.Helper()

	pub, priv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	signed, err := transport.NewSigned(priv, &Announcement{
		PublicKey: pub.String(),
		Endpoint:  endpoint,
	})
	require.NoError(t, err)
	return signed, pub
}

func TestAnnounceAndResolve(t *testing.T) {
	_, router := setupTestDirectory(t)

	signed, pub := signedAnnouncement(t, "http://localhost:9000")
	body, err := json.Marshal(signed)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/announce", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/resolve/"+pub.String(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var peer Peer
	require.NoError(t, json.NewDecoder(w.Body).Decode(&peer))
	assert.Equal(t, "http://localhost:9000", peer.Endpoint)
	assert.Equal(t, pub.String(), peer.PublicKey)
}

func TestResolveUnknownPeer(t *testing.T) {
	_, router := setupTestDirectory(t)

	req := httptest.NewRequest("GET", "/resolve/deadbeef", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnounceRejectsMismatchedSigner(t *testing.T) {
	_, router := setupTestDirectory(t)

	// Signed by one key but announcing a different one.
	otherPub, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, priv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	signed, err := transport.NewSigned(priv, &Announcement{
		PublicKey: otherPub.String(),
		Endpoint:  "http://localhost:9000",
	})
	require.NoError(t, err)

	body, err := json.Marshal(signed)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/announce", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDirectoryLoadsPersistedPeers(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SavePeer(&Peer{PublicKey: "abc123", Endpoint: "http://localhost:9000"}))

	dir, err := New(store, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	dir.RegisterRoutes(r)

	req := httptest.NewRequest("GET", "/resolve/abc123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientResolveAndCache(t *testing.T) {
	_, router := setupTestDirectory(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	signed, pub := signedAnnouncement(t, "http://localhost:9000")

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Announce(ctx, signed))

	endpoint, err := client.Resolve(ctx, pub)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", endpoint)

	// Second resolve hits the cache even if the server goes away.
	srv.Close()
	endpoint, err = client.Resolve(ctx, pub)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", endpoint)
}

func TestClientResolveUnknown(t *testing.T) {
	_, router := setupTestDirectory(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	unknown, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), unknown)
	require.ErrorIs(t, err, ErrUnknownPeer)
}
