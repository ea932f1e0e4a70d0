// Package ledger provides the in-process record of media files already
// confirmed downloaded or pre-existing during the current run. The ledger is
// the single piece of mutable state shared by all download workers, within
// and across poll cycles; it grows monotonically and is never persisted.
package ledger

import "sync"

// Ledger is a concurrency-safe set of absolute local file paths.
type Ledger struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// New creates an empty ledger. Files already on disk from a prior run are not
// pre-loaded; workers record them lazily when they first inspect them.
func New() *Ledger {
	return &Ledger{
		paths: make(map[string]struct{}),
	}
}

// Contains reports whether the path was previously recorded by this process.
func (l *Ledger) Contains(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.paths[path]
	return ok
}

// Record marks the path as handled. Recording the same path twice is a no-op.
func (l *Ledger) Record(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths[path] = struct{}{}
}

// Len returns the number of recorded paths.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.paths)
}
