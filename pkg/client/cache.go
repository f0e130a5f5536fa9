package client

import (
	"strings"
	"sync"
)

// Cache key roots. A key is a root optionally followed by ":" and a
// parameter suffix; invalidating a root drops every key under it.
const (
	KeyRequests   = "requests"
	KeyDashboard  = "dashboard"
	KeyAdminUsers = "admin-users"
	KeySeo        = "seo"
)

// QueryCache holds decoded responses keyed by query identity.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]interface{})}
}

func (q *QueryCache) Get(key string) (interface{}, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	v, ok := q.entries[key]
	return v, ok
}

func (q *QueryCache) Set(key string, v interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key] = v
}

// Invalidate drops every key equal to or under one of roots.
func (q *QueryCache) Invalidate(roots ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for key := range q.entries {
		for _, root := range roots {
			if key == root || strings.HasPrefix(key, root+":") {
				delete(q.entries, key)
				break
			}
		}
	}
}

func (q *QueryCache) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.entries)
}

func (q *QueryCache) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

// cached returns the entry under key or runs fetch and stores its result.
// Failures are not cached.
func cached[T any](q *QueryCache, key string, fetch func() (T, error)) (T, error) {
	if v, ok := q.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	t, err := fetch()
	if err != nil {
		return t, err
	}
	q.Set(key, t)
	return t, nil
}
