package directory

import "sync"

// MemoryStore implements Store without persistence, for tests and
// standalone runs.
type MemoryStore struct {
	mu    sync.Mutex
	peers map[string]*Peer
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{peers: make(map[string]*Peer)}
}

// SavePeer stores a peer, replacing any previous announcement.
func (s *MemoryStore) SavePeer(peer *Peer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *peer
	s.peers[peer.PublicKey] = &copied
	return nil
}

// LoadAllPeers returns all stored peers.
func (s *MemoryStore) LoadAllPeers() ([]*Peer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peers := make([]*Peer, 0, len(s.peers))
	for _, p := range s.peers {
		copied := *p
		peers = append(peers, &copied)
	}
	return peers, nil
}
