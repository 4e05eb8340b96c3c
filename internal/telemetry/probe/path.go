// Package probe caches the resolved location of volatile sysfs signals.
//
// A Path starts empty, is set by the first candidate that yields a valid
// reading and is cleared as soon as a read through it fails. Resolve keeps
// that lifecycle in one place so every signal heals the same way.
package probe

import (
	"context"
	"sync"
)

type Path struct {
	mu   sync.Mutex
	path string
	set  bool
}

func (p *Path) Get() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path, p.set
}

func (p *Path) Set(path string) {
	p.mu.Lock()
	p.path = path
	p.set = true
	p.mu.Unlock()
}

func (p *Path) Clear() {
	p.mu.Lock()
	p.path = ""
	p.set = false
	p.mu.Unlock()
}

// ReadFunc reports whether path produced a valid value.
type ReadFunc[T any] func(ctx context.Context, path string) (T, bool)

// Resolve reads through the cached path and falls back to a full candidate
// scan, in order, when there is none or it stopped working.
func Resolve[T any](ctx context.Context, cache *Path, candidates []string, read ReadFunc[T]) (T, bool) {
	if path, ok := cache.Get(); ok {
		if v, ok := read(ctx, path); ok {
			return v, true
		}
		cache.Clear()
	}

	for _, candidate := range candidates {
		if v, ok := read(ctx, candidate); ok {
			cache.Set(candidate)
			return v, true
		}
	}

	var zero T
	return zero, false
}
