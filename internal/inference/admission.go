package inference

import (
	"context"
	"time"
)

// Defaults applied when the corresponding Config fields are unset.
const (
	defaultConcurrency   = 1
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// admission is a FIFO-ish gate in front of the model: a bounded number of
// waiting requests and a bounded number of in-flight generations.
type admission struct {
	genCh   chan struct{} // in-flight slots
	queueCh chan struct{} // queue slots, held while waiting and while running
	maxWait time.Duration
}

func newAdmission(concurrency, depth int, maxWait time.Duration) *admission {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if depth <= 0 {
		depth = defaultMaxQueueDepth
	}
	if depth < concurrency {
		depth = concurrency
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	return &admission{
		genCh:   make(chan struct{}, concurrency),
		queueCh: make(chan struct{}, depth),
		maxWait: maxWait,
	}
}

// acquire reserves a queue slot and then an in-flight slot. The returned
// release func must be called exactly once on success.
func (a *admission) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(a.maxWait)
	defer timer.Stop()
	select {
	case a.queueCh <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, &TooBusyError{Reason: "queue full"}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-a.queueCh
		}
	}()
	select {
	case a.genCh <- struct{}{}:
		acquired = true
		return func() { <-a.genCh; <-a.queueCh }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, &TooBusyError{Reason: "timed out waiting for model"}
	}
}

func (a *admission) inflight() int { return len(a.genCh) }

// waiting counts requests holding a queue slot but not yet running.
func (a *admission) waiting() int {
	n := len(a.queueCh) - len(a.genCh)
	if n < 0 {
		return 0
	}
	return n
}

func (a *admission) depth() int { return cap(a.queueCh) }
