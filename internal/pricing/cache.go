package pricing

import (
	"sync"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

type cacheKey struct {
	ticker string
	date   string
}

// Cache memoizes lookup results by (ticker, requested date) and the raw
// series fetched per ticker, for the lifetime of the process.
type Cache struct {
	mu      sync.RWMutex
	results map[cacheKey]models.PriceLookupResult
	series  map[string]models.TimeSeries
	hits    int64
	misses  int64
}

type CacheStats struct {
	Results int   `json:"results"`
	Series  int   `json:"series"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func NewCache() *Cache {
	return &Cache{
		results: make(map[cacheKey]models.PriceLookupResult),
		series:  make(map[string]models.TimeSeries),
	}
}

func (c *Cache) Get(ticker, date string) (models.PriceLookupResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[cacheKey{ticker, date}]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return r, ok
}

func (c *Cache) Put(ticker, date string, r models.PriceLookupResult) {
	c.mu.Lock()
	c.results[cacheKey{ticker, date}] = r
	c.mu.Unlock()
}

func (c *Cache) Series(ticker string) (models.TimeSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.series[ticker]
	return s, ok
}

func (c *Cache) PutSeries(ticker string, s models.TimeSeries) {
	c.mu.Lock()
	c.series[ticker] = s
	c.mu.Unlock()
}

// Purge drops every entry and returns how many results were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.results)
	c.results = make(map[cacheKey]models.PriceLookupResult)
	c.series = make(map[string]models.TimeSeries)
	return n
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Results: len(c.results),
		Series:  len(c.series),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
