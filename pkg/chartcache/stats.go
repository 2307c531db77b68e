package chartcache

// Stats holds cache counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Entries    int
	Bytes      int64
	MaxEntries int   // 0 when unlimited.
	MaxBytes   int64 // 0 when unlimited.
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Entries:    len(c.entries),
		Bytes:      c.curBytes,
		MaxEntries: c.maxEntries,
		MaxBytes:   c.maxBytes,
	}
}
