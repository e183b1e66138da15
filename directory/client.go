package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/transport"
)

// Client resolves public keys against a remote directory, keeping a
// local cache that a background loop refreshes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu           sync.RWMutex
	cache        map[string]*Peer
	refreshReqCh chan struct{}
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("directory URL cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
		cache:        make(map[string]*Peer),
		refreshReqCh: make(chan struct{}, 1),
	}, nil
}

// Announce publishes a signed announcement to the directory.
func (c *Client) Announce(ctx context.Context, signed *transport.Signed[Announcement]) error {
	body, err := json.Marshal(signed)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/announce", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("announcing to directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("announce failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Resolve returns the endpoint announced for key, consulting the cache
// first and falling back to a direct lookup.
func (c *Client) Resolve(ctx context.Context, key crypto.PublicKey) (string, error) {
	keyStr := key.String()

	c.mu.RLock()
	peer, found := c.cache[keyStr]
	c.mu.RUnlock()
	if found {
		return peer.Endpoint, nil
	}

	peer, err := c.lookup(ctx, keyStr)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[keyStr] = peer
	c.mu.Unlock()
	return peer.Endpoint, nil
}

func (c *Client) lookup(ctx context.Context, publicKey string) (*Peer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/resolve/"+publicKey, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, publicKey)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var peer Peer
	if err := json.NewDecoder(resp.Body).Decode(&peer); err != nil {
		return nil, fmt.Errorf("decoding peer: %w", err)
	}
	return &peer, nil
}

// RequestRefresh asks the refresh loop to update the cache soon.
func (c *Client) RequestRefresh() {
	select {
	case c.refreshReqCh <- struct{}{}:
	default:
	}
}

// RunRefreshLoop periodically replaces the cache with the directory's
// full peer list. Blocks until ctx is cancelled.
func (c *Client) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	c.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		case <-c.refreshReqCh:
			ticker.Reset(interval)
			c.refresh(ctx)

			// drain
			select {
			case <-c.refreshReqCh:
			default:
			}
		}
	}
}

func (c *Client) refresh(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/peers", nil)
	if err != nil {
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("directory refresh failed", "err", err)
		return
	}
	defer resp.Body.Close()

	var peers []*Peer
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		c.log.Warn("directory refresh decode failed", "err", err)
		return
	}

	fresh := make(map[string]*Peer, len(peers))
	for _, p := range peers {
		fresh[p.PublicKey] = p
	}

	c.mu.Lock()
	c.cache = fresh
	c.mu.Unlock()
}
