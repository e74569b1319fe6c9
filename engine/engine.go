// Package engine resolves raw RFID scans into persisted crossing events and
// owns the consistency-critical race bookkeeping: each race's ordered
// checkpoint course and its participant roster.
package engine

import (
	"sync"

	"github.com/uptrace/bun"
)

// Engine is the top-level entry point for scan resolution and course/roster
// mutation. Safe for concurrent use; all multi-step mutations run inside a
// single database transaction.
type Engine struct {
	db *bun.DB

	mu       sync.Mutex
	replaces map[int64]*sync.Mutex
}

// New creates an Engine on the given database.
func New(db *bun.DB) *Engine {
	return &Engine{
		db:       db,
		replaces: make(map[int64]*sync.Mutex),
	}
}

// replaceLock returns the per-race mutex serializing course replacements, so
// a second in-process replace on the same race waits instead of interleaving.
func (e *Engine) replaceLock(raceID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.replaces[raceID]
	if !ok {
		l = &sync.Mutex{}
		e.replaces[raceID] = l
	}
	return l
}
