package xregex

import (
	"sync"
)

type cacheKey struct {
	pattern string
	flags   Flag
}

// Cache is a bounded cache of compiled expressions, for callers such as
// query evaluators that see the same pattern many times. Lookups are
// lock-free; when the cache is full the oldest entry is evicted.
// It is safe for concurrent use.
type Cache struct {
	entries sync.Map // map[cacheKey]*Regexp
	orderMu sync.Mutex
	order   []cacheKey
	maxSize int
	config  Config
}

// NewCache returns a cache holding at most maxSize expressions compiled
// with cfg. A non-positive maxSize selects a default of 100.
func NewCache(maxSize int, cfg Config) *Cache {
	if maxSize <= 0 {
		maxSize = 100
	}
	cfg.applyDefaults()
	return &Cache{
		order:   make([]cacheKey, 0, maxSize),
		maxSize: maxSize,
		config:  cfg,
	}
}

// Get returns the compiled form of pattern, compiling and caching it if
// needed. Compilation errors are not cached.
func (c *Cache) Get(pattern string, flags Flag) (*Regexp, error) {
	key := cacheKey{pattern: pattern, flags: flags}
	if re, ok := c.entries.Load(key); ok {
		return re.(*Regexp), nil
	}

	re, err := CompileWithConfig(pattern, flags, c.config)
	if err != nil {
		return nil, err
	}
	if existing, loaded := c.entries.LoadOrStore(key, re); loaded {
		return existing.(*Regexp), nil
	}

	c.orderMu.Lock()
	c.order = append(c.order, key)
	for len(c.order) > c.maxSize {
		c.entries.Delete(c.order[0])
		c.order = c.order[1:]
	}
	c.orderMu.Unlock()
	return re, nil
}

// GetFlags is like Get with an XPath flags string such as "mi".
func (c *Cache) GetFlags(pattern, flags string) (*Regexp, error) {
	f, err := ParseFlags(flags)
	if err != nil {
		return nil, err
	}
	return c.Get(pattern, f)
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	return len(c.order)
}

// Clear removes every cached expression.
func (c *Cache) Clear() {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	for _, k := range c.order {
		c.entries.Delete(k)
	}
	c.order = c.order[:0]
}
