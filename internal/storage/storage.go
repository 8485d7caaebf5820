// Package storage persists named chess positions and parse statistics.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/chessfen/internal/board"
)

// Storage keys
const (
	keyPositionPrefix = "position/"
	keyStats          = "stats"
)

// ErrPositionNotFound is returned when no position is saved under a name.
var ErrPositionNotFound = errors.New("storage: position not found")

// Record is a named position saved in the store.
// The position is kept as its FEN string and parsed again on load.
type Record struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position board.Position `json:"fen"`
	SavedAt  time.Time      `json:"saved_at"`
}

// ParseStats counts parse outcomes reported through RecordParse.
type ParseStats struct {
	Parsed   int            `json:"parsed"`
	Rejected int            `json:"rejected"`
	ByKind   map[string]int `json:"by_kind"`
}

// NewParseStats returns empty statistics
func NewParseStats() *ParseStats {
	return &ParseStats{ByKind: make(map[string]int)}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// DefaultDir returns the store directory under $XDG_DATA_HOME, or under
// the user config directory when that is unset, creating it if needed.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return "", err
		}
	}

	dir := filepath.Join(base, "chessfen", "positions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// NewStorage opens the store in DefaultDir.
func NewStorage() (*Storage, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Open opens the store in dir. An empty dir opens an in-memory store.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open position store: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func positionKey(name string) []byte {
	return []byte(keyPositionPrefix + name)
}

// SavePosition stores pos under name, replacing any earlier position with
// that name. A replaced record keeps its ID.
func (s *Storage) SavePosition(name string, pos board.Position) (*Record, error) {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return nil, fmt.Errorf("invalid position name %q", name)
	}

	rec := &Record{
		Name:     name,
		Position: pos,
		SavedAt:  time.Now().UTC(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var prev Record
		item, err := txn.Get(positionKey(name))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			rec.ID = uuid.NewString()
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return err
			}
			rec.ID = prev.ID
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(positionKey(name), data)
	})
	if err != nil {
		return nil, fmt.Errorf("save position %q: %w", name, err)
	}

	return rec, nil
}

// LoadPosition returns the record saved under name.
func (s *Storage) LoadPosition(name string) (*Record, error) {
	var rec Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPositionNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load position %q: %w", name, err)
	}

	return &rec, nil
}

// DeletePosition removes the record saved under name.
func (s *Storage) DeletePosition(name string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(positionKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrPositionNotFound
			}
			return err
		}
		return txn.Delete(positionKey(name))
	})
	if err != nil {
		return fmt.Errorf("delete position %q: %w", name, err)
	}
	return nil
}

// ListPositions returns every saved record ordered by name.
func (s *Storage) ListPositions() ([]*Record, error) {
	var records []*Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPositionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := new(Record)
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// FindByKey returns the saved records whose position shares pos's key,
// i.e. equal apart from the move counters.
func (s *Storage) FindByKey(pos board.Position) ([]*Record, error) {
	records, err := s.ListPositions()
	if err != nil {
		return nil, err
	}

	key := pos.Key()
	var matches []*Record
	for _, rec := range records {
		if rec.Position.Key() == key {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// RecordParse counts the outcome of one parse. A nil err counts as parsed;
// otherwise the rejection is tallied under its error kind.
func (s *Storage) RecordParse(parseErr error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}

		var perr *board.ParseError
		switch {
		case parseErr == nil:
			stats.Parsed++
		case errors.As(parseErr, &perr):
			stats.Rejected++
			stats.ByKind[perr.Kind.String()]++
		default:
			stats.Rejected++
			stats.ByKind["other"]++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads parse statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*ParseStats, error) {
	var stats *ParseStats
	err := s.db.View(func(txn *badger.Txn) (err error) {
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*ParseStats, error) {
	stats := NewParseStats()

	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.ByKind == nil {
		stats.ByKind = make(map[string]int)
	}
	return stats, err
}

// RejectRate returns the share of rejected parses as a percentage (0-100)
func (s *ParseStats) RejectRate() float64 {
	total := s.Parsed + s.Rejected
	if total == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(total) * 100
}
