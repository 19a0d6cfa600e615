package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader memoizes parsed raw tables keyed by the SHA-256 of the file bytes.
// Only the parse is cached; every derived pipeline stage is recomputed per
// request. Concurrent loads of identical content collapse into one parse.
type Loader struct {
	reader *Reader
	logger *slog.Logger

	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group
}

// NewLoader creates a loader around the given reader.
func NewLoader(reader *Reader, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		reader: reader,
		logger: logger,
		tables: make(map[string]*Table),
	}
}

// Hash returns the cache key for the given file bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load parses the file unless an identical upload was parsed before, and
// returns the content hash alongside the table.
func (l *Loader) Load(name string, data []byte) (string, *Table, error) {
	hash := Hash(data)

	l.mu.RLock()
	tbl, ok := l.tables[hash]
	l.mu.RUnlock()
	if ok {
		l.logger.Debug("table cache hit", slog.String("hash", hash))
		return hash, tbl, nil
	}

	v, err, _ := l.group.Do(hash, func() (interface{}, error) {
		tbl, err := l.reader.Read(name, data)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.tables[hash] = tbl
		l.mu.Unlock()
		return tbl, nil
	})
	if err != nil {
		return "", nil, err
	}
	return hash, v.(*Table), nil
}

// Get returns a previously loaded table by hash.
func (l *Loader) Get(hash string) (*Table, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tbl, ok := l.tables[hash]
	return tbl, ok
}

// Invalidate drops a cached table, forcing the next Load to re-parse.
func (l *Loader) Invalidate(hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.tables, hash)
}
