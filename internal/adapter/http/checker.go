package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/cache"
	"github.com/Strob0t/basenames/internal/service"
)

const (
	resultKeyPrefix = "avail_"

	// defaultResolveTimeout bounds a shared resolution when none is configured.
	defaultResolveTimeout = 30 * time.Second
)

// Resolver produces availability verdicts.
type Resolver interface {
	Resolve(ctx context.Context, name string) basename.AvailabilityResult
}

var _ Resolver = (*service.AvailabilityService)(nil)

// AvailabilityChecker coalesces concurrent checks for the same name and
// keeps definitive verdicts for a short while. Registration never goes
// through it.
type AvailabilityChecker struct {
	resolver Resolver
	results  cache.Cache
	ttl      time.Duration
	timeout  time.Duration
	group    singleflight.Group
}

// NewAvailabilityChecker wraps resolver. A nil results store or a zero ttl
// disables result caching; coalescing stays on.
func NewAvailabilityChecker(resolver Resolver, results cache.Cache, ttl time.Duration) *AvailabilityChecker {
	return &AvailabilityChecker{resolver: resolver, results: results, ttl: ttl, timeout: defaultResolveTimeout}
}

// SetResolveTimeout bounds each shared resolution. Non-positive values are ignored.
func (c *AvailabilityChecker) SetResolveTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Check returns the verdict for raw, sharing one in-flight resolution per name.
func (c *AvailabilityChecker) Check(ctx context.Context, raw string) basename.AvailabilityResult {
	name, err := basename.Validate(raw)
	if err != nil {
		return basename.Failed(err.Error())
	}
	key := resultKeyPrefix + name.String()

	if res, ok := c.cached(ctx, key); ok {
		return res
	}

	// The shared resolution must outlive any single caller's cancellation,
	// but not a hung backend.
	ch := c.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		res := c.resolver.Resolve(rctx, name.String())
		c.store(ctx, key, res)
		return res, nil
	})

	select {
	case r := <-ch:
		return r.Val.(basename.AvailabilityResult)
	case <-ctx.Done():
		return basename.Failed(service.MsgResolveFailed)
	}
}

func (c *AvailabilityChecker) cached(ctx context.Context, key string) (basename.AvailabilityResult, bool) {
	var res basename.AvailabilityResult
	if c.results == nil || c.ttl <= 0 {
		return res, false
	}
	data, ok, err := c.results.Get(ctx, key)
	if err != nil {
		slog.DebugContext(ctx, "availability cache read failed", "key", key, "error", err)
		return res, false
	}
	if !ok || json.Unmarshal(data, &res) != nil {
		return res, false
	}
	return res, true
}

func (c *AvailabilityChecker) store(ctx context.Context, key string, res basename.AvailabilityResult) {
	if c.results == nil || c.ttl <= 0 || res.Error != "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.results.Set(context.WithoutCancel(ctx), key, data, c.ttl); err != nil {
		slog.DebugContext(ctx, "availability cache write failed", "key", key, "error", err)
	}
}
