package retrieval

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"anydl/internal/media"
)

// ResolveOptions controls how Resolve fans out fetches.
type ResolveOptions struct {
	// Concurrency is the number of simultaneous fetches; values below 1 mean 1.
	Concurrency int
	// RatePerSecond paces fetch starts; 0 disables pacing.
	RatePerSecond float64
	// OnResolved, when set, is called as each item finishes. Calls may
	// arrive out of ordinal order and from multiple goroutines.
	OnResolved func(Resolved)
}

// Resolved is the outcome of fetching one item.
type Resolved struct {
	Item      media.Item
	Bytes     []byte
	OK        bool
	DirectURL string
}

// Resolve fetches every item and returns results in ordinal order. A failed
// item is reported with OK false and never affects the others. Every item's
// bytes are held until Resolve returns; use Each to handle them one at a time.
func (b *Batch) Resolve(ctx context.Context, opts ResolveOptions) []Resolved {
	results := make([]Resolved, len(b.Items))
	b.Each(ctx, opts, func(i int, result Resolved) {
		results[i] = result
	})
	return results
}

// Each fetches every item and hands each result to fn as soon as it arrives,
// together with its index in b.Items. The bytes are not retained after fn
// returns. fn may be called from multiple goroutines; Each returns once all
// calls have finished.
func (b *Batch) Each(ctx context.Context, opts ResolveOptions, fn func(int, Resolved)) {
	if len(b.Items) == 0 {
		return
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	var group errgroup.Group
	group.SetLimit(limit)
	for i, handle := range b.Items {
		group.Go(func() error {
			result := Resolved{Item: handle.Item, DirectURL: handle.DirectURL()}
			if limiter == nil || limiter.Wait(ctx) == nil {
				result.Bytes, result.OK = handle.Fetch(ctx)
			}
			fn(i, result)
			if opts.OnResolved != nil {
				opts.OnResolved(result)
			}
			return nil
		})
	}
	_ = group.Wait()
}
