package battle

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/alchemy/internal/game/pet"
)

// Match pairs two pets for one battle.
type Match struct {
	Pet1 *pet.Pet
	Pet2 *pet.Pet
}

// Arena resolves independent battles in parallel. Each battle owns its
// champions; pets are only read.
type Arena struct {
	workers int
	opts    []Option
	logger  *zap.Logger
}

// NewArena creates an Arena running at most workers battles at once.
//
// Precondition: logger must be non-nil; workers <= 0 means one worker.
func NewArena(workers int, logger *zap.Logger, opts ...Option) *Arena {
	if workers <= 0 {
		workers = 1
	}
	return &Arena{workers: workers, opts: opts, logger: logger}
}

// RunAll resolves every match and returns results in match order.
//
// Postcondition: Returns the first error encountered; remaining matches are
// skipped once ctx is cancelled or a match fails.
func (a *Arena) RunAll(ctx context.Context, matches []Match) ([]Result, error) {
	results := make([]Result, len(matches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, m := range matches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := append(append([]Option(nil), a.opts...),
				WithLogger(a.logger.With(zap.Int("match", i))))
			res, err := Resolve(m.Pet1, m.Pet2, opts...)
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
