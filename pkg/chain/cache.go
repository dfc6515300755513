package chain

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// moveCache remembers continuation counts for RankMoves. Entries are bound
// to a store generation; a generation change drops the whole cache.
type moveCache struct {
	counts      map[string]int
	accessTime  map[string]int64
	accessCount int64
	hits        int
	gen         uint64
	maxWords    int
	mu          sync.Mutex
}

func newMoveCache(maxWords int) *moveCache {
	return &moveCache{
		counts:     make(map[string]int, maxWords),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

func (mc *moveCache) get(word string, gen uint64) (int, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.sync(gen)
	n, ok := mc.counts[word]
	if ok {
		mc.hits++
		mc.markAccessed(word)
	}
	return n, ok
}

func (mc *moveCache) put(word string, n int, gen uint64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.sync(gen)
	if _, ok := mc.counts[word]; !ok && len(mc.counts) >= mc.maxWords {
		mc.evictLRU()
	}
	mc.counts[word] = n
	mc.markAccessed(word)
}

func (mc *moveCache) sync(gen uint64) {
	if gen == mc.gen {
		return
	}
	if len(mc.counts) > 0 {
		log.Debugf("Dropping %d cached continuation counts", len(mc.counts))
	}
	clear(mc.counts)
	clear(mc.accessTime)
	mc.gen = gen
}

func (mc *moveCache) Stats() map[string]int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return map[string]int{
		"moveCacheWords": len(mc.counts),
		"maxMoveWords":   mc.maxWords,
		"moveCacheHits":  mc.hits,
	}
}

func (mc *moveCache) markAccessed(word string) {
	mc.accessCount++
	mc.accessTime[word] = mc.accessCount
}

func (mc *moveCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = math.MaxInt64

	for word, accessTime := range mc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}

	if oldestWord != "" {
		delete(mc.counts, oldestWord)
		delete(mc.accessTime, oldestWord)
		log.Debugf("Evicted '%s' from move cache", oldestWord)
	}
}
