package inference

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// responseCache memoizes responses by prompt text for a fixed TTL. It is
// only meaningful with deterministic sampling (fixed seed or zero
// temperature). A nil *responseCache is a disabled cache.
type responseCache struct {
	cache *ttlcache.Cache[string, Response]
}

func newResponseCache(ttl time.Duration) *responseCache {
	if ttl <= 0 {
		return nil
	}
	c := ttlcache.New[string, Response](
		ttlcache.WithTTL[string, Response](ttl),
		ttlcache.WithDisableTouchOnHit[string, Response](),
	)
	go c.Start()
	return &responseCache{cache: c}
}

func (rc *responseCache) get(prompt string) (Response, bool) {
	if rc == nil {
		return Response{}, false
	}
	item := rc.cache.Get(prompt)
	if item == nil {
		return Response{}, false
	}
	return item.Value(), true
}

func (rc *responseCache) put(prompt string, resp Response) {
	if rc == nil {
		return
	}
	rc.cache.Set(prompt, resp, ttlcache.DefaultTTL)
}

func (rc *responseCache) len() int {
	if rc == nil {
		return 0
	}
	return rc.cache.Len()
}

func (rc *responseCache) stop() {
	if rc != nil {
		rc.cache.Stop()
	}
}
