package dedupe

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"contactmerge/internal/contact"
	"contactmerge/internal/logging"
)

// Edge links two records whose score met the threshold. A is always less
// than B.
type Edge struct {
	A     int
	B     int
	Score float64
}

// Group partitions records into clusters connected by pairwise scores at or
// above threshold.
func (e *Engine) Group(ctx context.Context, records []contact.Record, threshold float64) (*Partition, error) {
	g, err := e.group(ctx, records, threshold)
	if err != nil {
		return nil, err
	}
	return g.partition, nil
}

type grouping struct {
	partition   *Partition
	edges       []Edge
	comparisons int
}

func (e *Engine) group(ctx context.Context, records []contact.Record, threshold float64) (grouping, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return grouping{}, err
	}
	n := len(records)
	started := time.Now()

	profiles := e.scorer.profiles(records)
	rows, err := e.scanRows(ctx, profiles, threshold)
	if err != nil {
		return grouping{}, err
	}

	uf := newUnionFind(n)
	var edges []Edge
	for _, row := range rows {
		for _, edge := range row {
			uf.union(edge.A, edge.B)
			edges = append(edges, edge)
		}
	}
	partition := uf.partition()

	e.logger.Debug(
		"pairwise scoring complete",
		logging.Int("records", n),
		logging.Int("edges", len(edges)),
		logging.Int("clusters", partition.Len()),
		logging.Float64("threshold", threshold),
		logging.Duration("elapsed", time.Since(started)),
	)
	return grouping{
		partition:   partition,
		edges:       edges,
		comparisons: n * (n - 1) / 2,
	}, nil
}

// scanRows scores row i against every j > i and returns the edges per row.
// Rows are independent, so they are fanned out across workers; the caller
// consumes them in index order.
func (e *Engine) scanRows(ctx context.Context, profiles []profile, threshold float64) ([][]Edge, error) {
	rows := make([][]Edge, len(profiles))
	workers := e.workerCount()

	if workers <= 1 || len(profiles) < 2*workers {
		for i := range profiles {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rows[i] = scanRow(profiles, i, threshold)
		}
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = scanRow(profiles, i, threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func scanRow(profiles []profile, i int, threshold float64) []Edge {
	if !profiles[i].hasSignal() {
		return nil
	}
	var row []Edge
	for j := i + 1; j < len(profiles); j++ {
		if !profiles[j].hasSignal() {
			continue
		}
		score := compareProfiles(profiles[i], profiles[j])
		// Zero means no shared signal; such pairs never link, even at threshold 0.
		if score > 0 && score >= threshold {
			row = append(row, Edge{A: i, B: j, Score: score})
		}
	}
	return row
}
