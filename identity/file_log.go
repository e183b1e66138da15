package identity

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSeedLog is an append-only seed log backed by a local JSON-lines
// file. Records are only ever appended; the first record for a key
// wins. This is the single-node analog of an append-only log service.
type FileSeedLog struct {
	path string
	mu   sync.Mutex
}

type fileLogRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewFileSeedLog creates a file-backed seed log at path, creating the
// parent directory if needed. The file is created with 0600 since it
// holds secret material.
func NewFileSeedLog(path string) (*FileSeedLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating seed log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening seed log: %w", err)
	}
	f.Close()
	return &FileSeedLog{path: path}, nil
}

// Get scans the log and returns the first value recorded under key.
func (l *FileSeedLog) Get(_ context.Context, key string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(key)
}

func (l *FileSeedLog) get(key string) ([]byte, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening seed log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec fileLogRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("corrupt seed log entry: %w", err)
		}
		if rec.Key == key {
			return hex.DecodeString(rec.Value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading seed log: %w", err)
	}
	return nil, ErrSeedNotFound
}

// Append writes a new record for key unless one exists already. The
// write is flushed to disk before returning.
func (l *FileSeedLog) Append(_ context.Context, key string, value []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.get(key); err == nil {
		return nil
	} else if err != ErrSeedNotFound {
		return err
	}

	line, err := json.Marshal(fileLogRecord{Key: key, Value: hex.EncodeToString(value)})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening seed log for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending to seed log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing seed log: %w", err)
	}
	return nil
}
