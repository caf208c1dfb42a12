// Package cache provides a keyed, size-bounded store for computed results.
//
// Entries are keyed on the identity of the source data and the query
// parameters, so a new dataset version never reads a stale result.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies one computed result.
type Key struct {
	Source string // dataset identity, e.g. the content hash
	Params string // query parameters, e.g. the selected champion
}

func (k Key) String() string {
	return fmt.Sprintf("%.12s/%s", k.Source, k.Params)
}

// Store is the contract the aggregator depends on.
type Store[V any] interface {
	Get(k Key) (V, bool)
	Put(k Key, v V)
	// Invalidate drops every entry computed from source.
	Invalidate(source string) int
	Purge()
	Len() int
}

// LRU is a Store that evicts the least recently used entry once full.
// It is safe for concurrent use.
type LRU[V any] struct {
	entries *lru.Cache[Key, V]
}

// NewLRU returns an LRU store holding at most size entries.
func NewLRU[V any](size int) (*LRU[V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	c, err := lru.New[Key, V](size)
	if err != nil {
		return nil, fmt.Errorf("new lru: %w", err)
	}
	return &LRU[V]{entries: c}, nil
}

func (s *LRU[V]) Get(k Key) (V, bool) { return s.entries.Get(k) }

func (s *LRU[V]) Put(k Key, v V) { s.entries.Add(k, v) }

func (s *LRU[V]) Invalidate(source string) int {
	n := 0
	for _, k := range s.entries.Keys() {
		if k.Source == source && s.entries.Remove(k) {
			n++
		}
	}
	return n
}

func (s *LRU[V]) Purge() { s.entries.Purge() }

func (s *LRU[V]) Len() int { return s.entries.Len() }

// Nop never stores anything. Useful when memoization is disabled.
type Nop[V any] struct{}

func (Nop[V]) Get(Key) (V, bool) {
	var zero V
	return zero, false
}
func (Nop[V]) Put(Key, V) {}
func (Nop[V]) Invalidate(string) int { return 0 }
func (Nop[V]) Purge() {}
func (Nop[V]) Len() int { return 0 }
