package classify

import (
	"context"
	"runtime"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Strategy names accepted by NewStrategy
const (
	StrategySequential = "sequential"
	StrategyParallel   = "parallel"
)

// Strategy runs n independent tasks. Tasks share no mutable state; each one
// writes only to its own result slot. The first error stops the run.
type Strategy interface {
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
	Name() string
}

// Sequential runs tasks one after another on the calling goroutine.
type Sequential struct{}

// Run implements Strategy
func (Sequential) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Name implements Strategy
func (Sequential) Name() string {
	return StrategySequential
}

// Parallel runs tasks on a bounded pool of goroutines.
type Parallel struct {
	// Workers bounds concurrency; non-positive means runtime.NumCPU().
	Workers int
}

// Run implements Strategy
func (p Parallel) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// Name implements Strategy
func (p Parallel) Name() string {
	return StrategyParallel
}

func (p Parallel) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string, workers int) (Strategy, error) {
	switch name {
	case StrategySequential:
		return Sequential{}, nil
	case StrategyParallel, "":
		return Parallel{Workers: workers}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown strategy %q", name)
	}
}
