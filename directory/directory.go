package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/transport"
)

// ErrUnknownPeer is returned when a public key has no announcement.
var ErrUnknownPeer = errors.New("unknown peer")

// Announcement is the record a service publishes to become reachable.
// The signer of the envelope must be the key being announced.
type Announcement struct {
	PublicKey string `json:"public_key"`
	Endpoint  string `json:"endpoint"`
}

// Peer is a resolved directory entry.
type Peer struct {
	PublicKey string `json:"public_key"`
	Endpoint  string `json:"endpoint"`
}

// Store persists announcements across directory restarts.
type Store interface {
	SavePeer(peer *Peer) error
	LoadAllPeers() ([]*Peer, error)
}

// Directory serves announce and resolve requests over a Store-backed
// peer table.
type Directory struct {
	store Store
	log   *slog.Logger

	mu    sync.RWMutex
	peers map[string]*Peer
}

// New creates a directory, loading any persisted peers from the store.
func New(store Store, log *slog.Logger) (*Directory, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	peers, err := store.LoadAllPeers()
	if err != nil {
		return nil, fmt.Errorf("loading persisted peers: %w", err)
	}

	table := make(map[string]*Peer, len(peers))
	for _, p := range peers {
		table[p.PublicKey] = p
	}

	return &Directory{store: store, log: log, peers: table}, nil
}

// RegisterRoutes registers the directory's HTTP routes.
func (d *Directory) RegisterRoutes(r chi.Router) {
	r.Post("/announce", d.handleAnnounce)
	r.Get("/resolve/{public_key}", d.handleResolve)
	r.Get("/peers", d.handlePeers)
}

func (d *Directory) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var signed transport.Signed[Announcement]
	if err := json.NewDecoder(r.Body).Decode(&signed); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ann, signer, err := signed.Recover()
	if err != nil {
		http.Error(w, fmt.Errorf("invalid signature: %w", err).Error(), http.StatusForbidden)
		return
	}

	if _, err := crypto.NewPublicKeyFromString(ann.PublicKey); err != nil {
		http.Error(w, "invalid public key", http.StatusBadRequest)
		return
	}
	if signer.String() != ann.PublicKey {
		http.Error(w, "signer does not match announced public key", http.StatusForbidden)
		return
	}
	if ann.Endpoint == "" {
		http.Error(w, "missing endpoint", http.StatusBadRequest)
		return
	}

	peer := &Peer{PublicKey: ann.PublicKey, Endpoint: ann.Endpoint}
	if err := d.store.SavePeer(peer); err != nil {
		d.log.Error("failed to persist announcement", "publicKey", ann.PublicKey, "err", err)
		http.Error(w, "failed to persist announcement", http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	d.peers[peer.PublicKey] = peer
	d.mu.Unlock()

	d.log.Info("peer announced", "publicKey", peer.PublicKey, "endpoint", peer.Endpoint)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(peer)
}

func (d *Directory) handleResolve(w http.ResponseWriter, r *http.Request) {
	publicKey := chi.URLParam(r, "public_key")

	d.mu.RLock()
	peer, found := d.peers[publicKey]
	d.mu.RUnlock()

	if !found {
		http.Error(w, "unknown peer", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(peer)
}

func (d *Directory) handlePeers(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	peers := make([]*Peer, 0, len(d.peers))
	for _, p := range d.peers {
		peers = append(peers, p)
	}
	d.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(peers)
}
