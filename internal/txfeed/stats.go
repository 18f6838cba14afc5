package txfeed

import (
	"strings"
	"sync"
	"time"

	"github.com/axiomhq/hyperloglog"
)

// Stats summarizes the poller's activity since startup. Distinct address
// counts are HyperLogLog estimates.
type Stats struct {
	Fetches            uint64    `json:"fetches"`
	Failures           uint64    `json:"failures"`
	BlocksSeen         uint64    `json:"blocksSeen"`
	TransactionsServed uint64    `json:"transactionsServed"`
	LastBlock          uint64    `json:"lastBlock"`
	LastFetchAt        time.Time `json:"lastFetchAt"`
	UniqueSenders      uint64    `json:"uniqueSenders"`
	UniqueRecipients   uint64    `json:"uniqueRecipients"`
}

type statsCollector struct {
	mu         sync.Mutex
	stats      Stats
	senders    *hyperloglog.Sketch
	recipients *hyperloglog.Sketch
}

func newStatsCollector() *statsCollector {
	return &statsCollector{
		senders:    hyperloglog.New14(),
		recipients: hyperloglog.New14(),
	}
}

func (c *statsCollector) observeFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Fetches++
	c.stats.Failures++
}

func (c *statsCollector) observeBatch(height uint64, txs []Transaction, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Fetches++
	c.stats.TransactionsServed += uint64(len(txs))
	c.stats.LastFetchAt = at

	if height == c.stats.LastBlock {
		return
	}

	c.stats.BlocksSeen++
	c.stats.LastBlock = height
	for _, tx := range txs {
		c.senders.Insert([]byte(strings.ToLower(tx.From)))
		if !tx.IsContractCreation() {
			c.recipients.Insert([]byte(strings.ToLower(tx.To)))
		}
	}
}

func (c *statsCollector) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.UniqueSenders = c.senders.Estimate()
	s.UniqueRecipients = c.recipients.Estimate()
	return s
}
