package service

import (
	"context"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"golang.org/x/sync/errgroup"
)

// AnalyzeBatch runs AnalyzeITR for every request on at most limit goroutines.
// Results are in request order. The only error is ctx's.
func AnalyzeBatch(ctx context.Context, requests []dto.AuditRequest, limit int) ([]dto.AuditResult, error) {
	results := make([]dto.AuditResult, len(requests))
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range requests {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = AnalyzeITR(req.ITR, req.AIS, req.Form26AS, req.PreviousITR)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
