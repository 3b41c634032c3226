package app

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchFit analyzes many abundance vectors concurrently. The engines hold
// no shared mutable state, so requests run data-parallel with bounded
// parallelism; results preserve input order. The first failure cancels the
// remaining work.
func (s *DiversityService) BatchFit(ctx context.Context, reqs []AnalyzeRequest) ([]*Report, error) {
	reports := make([]*Report, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, req := range reqs {
		g.Go(func() error {
			r, err := s.Analyze(ctx, req)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
