package domain

import (
	"context"
	"time"
)

// StatsClient talks to the external view-counting collector. Implementations
// are best-effort: Hit is fire-and-forget and never returns an error, and
// Views falls back to zero counts for every uri when the collector is
// unreachable. A collector failure must never surface to the caller.
type StatsClient interface {
	Hit(ctx context.Context, uri, clientIP string, ts time.Time)
	Views(ctx context.Context, uris []string, start, end time.Time, unique bool) map[string]int64
}
