package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresSeedLog implements SeedLog with PostgreSQL persistence.
// The seed_log table is insert-only: a conflicting append is dropped,
// never applied, which preserves the first-write-wins contract even
// across concurrent service starts.
type PostgresSeedLog struct {
	db *sql.DB
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// NewPostgresSeedLog opens the database, verifies connectivity and runs
// the schema migration. Any failure here must abort startup.
func NewPostgresSeedLog(config *PostgresConfig) (*PostgresSeedLog, error) {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log := &PostgresSeedLog{db: db}
	if err := log.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return log, nil
}

func (l *PostgresSeedLog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seed_log (
		key VARCHAR(128) PRIMARY KEY,
		value BYTEA NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := l.db.ExecContext(ctx, schema)
	return err
}

// Get returns the value stored under key.
func (l *PostgresSeedLog) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := l.db.QueryRowContext(ctx, "SELECT value FROM seed_log WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying seed log: %w", err)
	}
	return value, nil
}

// Append inserts a value under key; an existing key is left untouched.
func (l *PostgresSeedLog) Append(ctx context.Context, key string, value []byte) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO seed_log (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING",
		key, value)
	if err != nil {
		return fmt.Errorf("appending to seed log: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (l *PostgresSeedLog) Close() error {
	return l.db.Close()
}
