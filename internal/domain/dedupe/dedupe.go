// Package dedupe tracks keys that have already been processed.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys so that each key is handled at most once.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if it was not. It is safe for concurrent use.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a later call can record it again.
	Unrecord(ctx context.Context, key string)

	Size() int
}

type setDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
	name     string
}

// New returns an in-memory Deduper backed by a set.
func New(opts ...Option) Deduper {
	d := &setDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *setDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *setDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	delete(d.seen, key)
	d.mu.Unlock()
}

func (d *setDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Key joins parts into a single dedupe key. Parts are separated by a byte
// that cannot appear in a CSV cell after trimming.
func Key(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, 0x1f)
		}
		b = append(b, p...)
	}
	return string(b)
}
