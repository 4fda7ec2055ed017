// Package cache provides a time-bounded in-memory cache for computed responses.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Observer is notified about every lookup.
type Observer interface {
	CacheHit()
	CacheMiss()
}

type entry[T any] struct {
	val T
	exp time.Time
}

// Cache is a TTL cache safe for concurrent use. A non-positive TTL disables it.
type Cache[T any] struct {
	mu  sync.RWMutex
	m   map[string]entry[T]
	ttl time.Duration
	obs Observer
	now func() time.Time
}

func New[T any](ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{m: make(map[string]entry[T]), ttl: ttl, obs: obs, now: time.Now}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if ok && c.now().After(e.exp) {
		c.mu.Lock()
		// re-check, a concurrent Set may have refreshed the entry
		if cur, still := c.m[key]; still && c.now().After(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		ok = false
	}
	if !ok {
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return e.val, true
}

func (c *Cache[T]) Set(key string, v T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = entry[T]{val: v, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// EmpStatusKey builds the cache key for an employee status response.
func EmpStatusKey(nationalNumber string) string {
	return "empstatus:" + strings.TrimSpace(nationalNumber)
}
