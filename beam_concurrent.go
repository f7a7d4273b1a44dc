package beamscene

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ComputeBeamPathConcurrent is ComputeBeamPath spread over a bounded pool
// of goroutines. Elements share no state, so each worker writes only its
// own output slot and the result order matches starts. workers <= 0 uses
// GOMAXPROCS.
func ComputeBeamPathConcurrent(ctx context.Context, starts []BeamEndpoint, focus Point3, inScale, outScale float64, workers int) ([]BeamSegment, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	segs := make([]BeamSegment, len(starts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, ep := range starts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seg, err := ComputeSegment(ep, focus, inScale, outScale)
			if err != nil {
				return &PathError{Index: i, ID: ep.ID, Err: err}
			}
			segs[i] = seg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// the loop may have stopped early on a cancelled parent without any
	// task returning an error
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}
