package cli

import (
	"context"
	"time"

	"github.com/matzehuels/stackmerge/pkg/observability"
)

// logHooks reports pipeline and cache events at debug level through the
// logger attached to the command context.
type logHooks struct{}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)

func (logHooks) OnStateChange(ctx context.Context, id, from, to string) {
	loggerFromContext(ctx).Debug("state", "id", shortID(id), "from", from, "to", to)
}

func (logHooks) OnStageComplete(ctx context.Context, id, stage string, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("stage failed", "id", shortID(id), "stage", stage, "duration", d.Round(time.Microsecond), "error", err)
		return
	}
	l.Debug("stage", "id", shortID(id), "stage", stage, "duration", d.Round(time.Microsecond))
}

func (logHooks) OnCacheHit(ctx context.Context, kind string) {
	loggerFromContext(ctx).Debug("cache hit", "kind", kind)
}

func (logHooks) OnCacheMiss(ctx context.Context, kind string) {
	loggerFromContext(ctx).Debug("cache miss", "kind", kind)
}

func (logHooks) OnCacheSet(ctx context.Context, kind string, size int) {
	loggerFromContext(ctx).Debug("cache set", "kind", kind, "bytes", size)
}

// shortID trims an invocation UUID to its first group.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
