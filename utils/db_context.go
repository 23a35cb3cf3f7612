package utils

import (
	"context"
	"time"
)

// Query timeout tiers. Part lookups and quote-number scans are indexed
// point reads and get the fast tier; contract imports and quote rewrites
// run multi-statement transactions and get the slow tier.
const (
	FastQueryTimeout    = 5 * time.Second
	DefaultQueryTimeout = 15 * time.Second
	SlowQueryTimeout    = 45 * time.Second
)

// GetQueryContext derives a bounded context for one database call. A nil
// parent means the caller runs outside a request, e.g. the cron sweeps.
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

func GetFastQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, FastQueryTimeout)
}

func GetSlowQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, SlowQueryTimeout)
}
