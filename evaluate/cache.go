// SPDX-License-Identifier: MIT

package evaluate

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// predictionCache memoises A·m keyed by a fingerprint of m. Entries are
// evicted first-in first-out once size is reached. Hits compare the stored
// model so a fingerprint collision can never return a wrong prediction.
type predictionCache struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]cacheEntry
	order   []uint64
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	model []float64
	pred  []float64
}

func newPredictionCache(size int) *predictionCache {
	return &predictionCache{size: size, entries: make(map[uint64]cacheEntry, size)}
}

// fingerprint hashes the IEEE-754 bits of m.
func fingerprint(m []float64) uint64 {
	d := xxhash.New()
	var b [8]byte
	for _, v := range m {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		_, _ = d.Write(b[:])
	}

	return d.Sum64()
}

func (c *predictionCache) get(key uint64, m []float64) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !slices.Equal(e.model, m) {
		c.misses++
		return nil, false
	}
	c.hits++

	return e.pred, true
}

func (c *predictionCache) put(key uint64, m, pred []float64) {
	if c.size == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		if len(c.order) == c.size {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{model: slices.Clone(m), pred: pred}
}

func (c *predictionCache) stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}
