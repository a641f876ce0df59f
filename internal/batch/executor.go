// Package batch runs a per-item operation over a collection with bounded
// concurrency, isolating per-item failures and aggregating the outcome.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight items when no explicit limit is set.
const DefaultConcurrency = 5

// Config controls executor behavior. The same policy applies to every call
// site; commands opt out of failure isolation explicitly, not implicitly.
type Config struct {
	// Concurrency is the maximum number of in-flight items. Values below 1
	// fall back to DefaultConcurrency.
	Concurrency int
	// ContinueOnError keeps the batch running past per-item failures. When
	// false the first failure cancels all outstanding work.
	ContinueOnError bool
}

// Failure pairs a failed item's identity with its error.
type Failure struct {
	Item string
	Err  error
}

// Result aggregates one batch run. Counts cover items whose operation actually
// started; items cancelled before starting appear in none of them.
type Result struct {
	Attempted int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Err returns nil on full success, otherwise an error naming the failure count.
func (r Result) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d items failed", r.Failed, r.Attempted)
}

// Executor applies one Config across batch runs.
type Executor struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Executor {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Executor{cfg: cfg, log: log}
}

// Run executes op once per item. Failures are logged with the item's identity
// and recorded; they never escape as panics or crash the batch. Items complete
// in any order.
func Run[T any](ctx context.Context, e *Executor, items []T, name func(T) string, op func(context.Context, T) error) Result {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	var mu sync.Mutex
	var res Result

	for _, item := range items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			mu.Lock()
			res.Attempted++
			mu.Unlock()

			if err := op(gctx, item); err != nil {
				e.log.Error().Str("item", name(item)).Err(err).Msg("item failed")
				mu.Lock()
				res.Failed++
				res.Failures = append(res.Failures, Failure{Item: name(item), Err: err})
				mu.Unlock()
				if !e.cfg.ContinueOnError {
					return err
				}
				return nil
			}

			mu.Lock()
			res.Succeeded++
			mu.Unlock()
			return nil
		})
	}

	// Per-item errors are already recorded in res; Wait only reflects the
	// cancellation path.
	_ = g.Wait()

	return res
}
