package inference

import (
	"time"

	"llmchat/pkg/types"
)

// Status builds the /status payload.
func (c *Coordinator) Status() types.StatusResponse {
	snap := c.loader.Snapshot()
	now := time.Now()
	return types.StatusResponse{
		State:             string(snap.State),
		ModelPath:         c.loader.Path(),
		Architecture:      string(c.loader.Arch()),
		LastError:         snap.LastErr,
		LoadsTotal:        snap.Loads,
		LoadFailuresTotal: snap.Failures,
		Inflight:          c.admit.inflight(),
		QueueLen:          c.admit.waiting(),
		MaxQueueDepth:     c.admit.depth(),
		MaxTokens:         c.cfg.MaxTokens,
		EchoPrompt:        c.cfg.EchoPrompt,
		CacheEntries:      c.cache.len(),
		UptimeSeconds:     int64(now.Sub(c.start).Seconds()),
		ServerTimeUnix:    now.Unix(),
	}
}
