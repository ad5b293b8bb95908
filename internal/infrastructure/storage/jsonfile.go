package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

// JSONFileRepository appends processed items to a single JSON array
// file, the durable export log. The file is redundant with the
// in-memory dedup ledger on purpose: it survives restarts, the ledger
// does not.
type JSONFileRepository struct {
	path string
	mu   sync.Mutex
}

var _ ports.ItemRepository = (*JSONFileRepository)(nil)

// NewJSONFileRepository ensures the export file and its directory exist.
func NewJSONFileRepository(path string) (*JSONFileRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export dir: %w", err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("create export file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat export file: %w", err)
	}

	return &JSONFileRepository{path: path}, nil
}

// Path returns the absolute location of the export file.
func (r *JSONFileRepository) Path() string {
	abs, err := filepath.Abs(r.path)
	if err != nil {
		return r.path
	}
	return abs
}

// AppendIfNew reads the current log, drops the item if its link is
// already present, and otherwise appends it with the capture timestamp
// stamped exactly once.
func (r *JSONFileRepository) AppendIfNew(_ context.Context, item domain.EnrichedItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return false, fmt.Errorf("read export file: %w", err)
	}

	var entries []domain.EnrichedItem
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupted log should not wedge the pipeline; start over.
		entries = nil
	}

	for _, entry := range entries {
		if entry.Link == item.Link {
			return false, nil
		}
	}

	if item.CapturedAt.IsZero() {
		item.CapturedAt = time.Now()
	}
	entries = append(entries, item)

	out, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return false, fmt.Errorf("marshal export log: %w", err)
	}
	if err := os.WriteFile(r.path, out, 0o644); err != nil {
		return false, fmt.Errorf("write export file: %w", err)
	}
	return true, nil
}
