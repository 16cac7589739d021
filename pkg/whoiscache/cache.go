// Keeps the most recently fetched WHOIS record for as long as the process lives.
// There is no expiry: serverless runtimes recycle warm processes within
// minutes, which is the only thing bounding staleness. This saves our limited
// WHOIS API quota.
package whoiscache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/function61/domainwatcher/pkg/domainwhois/domainwhoiswhoisxmlapi"
	"github.com/function61/domainwatcher/pkg/watchermetrics"
	"github.com/function61/gokit/logex"
	"golang.org/x/sync/singleflight"
)

type FetchFunc func(ctx context.Context) (*domainwhoiswhoisxmlapi.Response, error)

type Cache struct {
	fetch    FetchFunc
	logl     *logex.Leveled
	metrics  *watchermetrics.Metrics
	inflight singleflight.Group

	cachedMu sync.Mutex
	cached   *domainwhoiswhoisxmlapi.Response // nil = empty
}

// metrics can be nil
func New(fetch FetchFunc, logger *log.Logger, metrics *watchermetrics.Metrics) *Cache {
	return &Cache{
		fetch:   fetch,
		logl:    logex.Levels(logger),
		metrics: metrics,
	}
}

// Get returns the cached record or fetches one. A failed fetch is not cached,
// so the next Get tries again. Concurrent Gets on an empty cache share one
// fetch. The shared fetch is not canceled when its starter goes away (the
// fetcher's own timeout still applies); each caller stops waiting when its own
// ctx is done.
func (c *Cache) Get(ctx context.Context) (*domainwhoiswhoisxmlapi.Response, error) {
	if cached := c.load(); cached != nil {
		c.logl.Info.Println("Using cached WHOIS data")
		c.metrics.CacheHit()
		return cached, nil
	}

	c.metrics.CacheMiss()

	fetchCtx := context.WithoutCancel(ctx)

	flight := c.inflight.DoChan("whois", func() (interface{}, error) {
		// populated while we were queuing for the flight
		if cached := c.load(); cached != nil {
			return cached, nil
		}

		c.logl.Info.Println("Fetching WHOIS data")

		started := time.Now()
		record, err := c.fetch(fetchCtx)
		c.metrics.ObserveLookup(started, err)
		if err != nil {
			return nil, err
		}

		c.store(record)

		return record, nil
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*domainwhoiswhoisxmlapi.Response), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reset empties the cache, so the next Get fetches
func (c *Cache) Reset() {
	c.store(nil)
}

func (c *Cache) load() *domainwhoiswhoisxmlapi.Response {
	c.cachedMu.Lock()
	defer c.cachedMu.Unlock()

	return c.cached
}

func (c *Cache) store(record *domainwhoiswhoisxmlapi.Response) {
	c.cachedMu.Lock()
	defer c.cachedMu.Unlock()

	c.cached = record
}
