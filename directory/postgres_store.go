package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store with PostgreSQL persistence, so the
// peer table survives directory restarts.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database, verifies connectivity and runs
// the schema migration.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS announced_peers (
		public_key VARCHAR(128) PRIMARY KEY,
		endpoint VARCHAR(512) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SavePeer upserts an announcement.
func (s *PostgresStore) SavePeer(peer *Peer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
	INSERT INTO announced_peers (public_key, endpoint, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (public_key) DO UPDATE SET
		endpoint = EXCLUDED.endpoint,
		updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, peer.PublicKey, peer.Endpoint)
	return err
}

// LoadAllPeers retrieves every persisted announcement.
func (s *PostgresStore) LoadAllPeers() ([]*Peer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT public_key, endpoint FROM announced_peers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var peers []*Peer
	for rows.Next() {
		var p Peer
		if err := rows.Scan(&p.PublicKey, &p.Endpoint); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		peers = append(peers, &p)
	}
	return peers, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
