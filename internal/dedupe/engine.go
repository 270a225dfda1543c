package dedupe

import (
	"context"
	"log/slog"
	"runtime"

	"contactmerge/internal/contact"
	"contactmerge/internal/logging"
	"contactmerge/internal/textutil"
)

// Engine runs the scoring, grouping, and resolution pipeline.
type Engine struct {
	scorer  *Scorer
	workers int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.NewComponentLogger(logger, "dedupe")
	}
}

// WithWorkers sets how many goroutines score pairs. Zero uses GOMAXPROCS and
// one scores serially.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.workers = n
		}
	}
}

// WithFields sets the compared field names.
func WithFields(fields ScorerFields) Option {
	return func(e *Engine) {
		e.scorer = NewScorer(fields)
	}
}

// NewEngine builds an engine with default fields, GOMAXPROCS workers, and no
// logging.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scorer: NewScorer(DefaultFields()),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the engine's scorer.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

func (e *Engine) workerCount() int {
	if e.workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.workers
}

// RunOptions selects the behavior of Run.
type RunOptions struct {
	Threshold float64
	Mode      Mode
	// DryRun only applies to ModeMerge.
	DryRun bool
}

// Validate checks the threshold and mode.
func (o RunOptions) Validate() error {
	if err := ValidateThreshold(o.Threshold); err != nil {
		return err
	}
	return o.Mode.Validate()
}

// Proposal describes one merge a dry run would perform.
type Proposal struct {
	Members []int
	// Edges are the threshold-passing pairs inside the cluster.
	Edges []Edge
	// Breakdowns holds the per-field ratios of each edge, aligned with Edges.
	Breakdowns []map[textutil.FieldKind]float64
	// Score is the best pairwise score inside the cluster.
	Score  float64
	Merged MergedRecord
}

// Result is the output of Run.
type Result struct {
	Mode      Mode
	DryRun    bool
	Threshold float64
	Fields    contact.FieldOrder
	Partition *Partition
	// Records is the primary output: annotated records for ModeLink, merged
	// records for ModeMerge, and the untouched input for a dry run.
	Records   []contact.Record
	Annotated []AnnotatedRecord
	Merged    []MergedRecord
	Proposals []Proposal

	comparisons int
	input       int
}

// Stats summarizes a Result.
type Stats struct {
	Input             int
	Output            int
	Clusters          int
	DuplicateClusters int
	// Duplicates counts records that belong to a cluster but are not its
	// representative.
	Duplicates  int
	Comparisons int
}

// Stats computes summary counts.
func (r *Result) Stats() Stats {
	s := Stats{
		Input:       r.input,
		Output:      len(r.Records),
		Clusters:    r.Partition.Len(),
		Comparisons: r.comparisons,
	}
	if r.Partition != nil {
		for _, c := range r.Partition.clusters {
			if len(c) > 1 {
				s.DuplicateClusters++
				s.Duplicates += len(c) - 1
			}
		}
	}
	return s
}

// Run deduplicates set according to opts. Configuration errors are returned
// before any scoring happens. An empty set yields an empty Result.
func (e *Engine) Run(ctx context.Context, set contact.Set, opts RunOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.DryRun && opts.Mode != ModeMerge {
		e.logger.Debug("dry run ignored outside merge mode", logging.String("mode", opts.Mode.String()))
		opts.DryRun = false
	}

	res := &Result{
		Mode:      opts.Mode,
		DryRun:    opts.DryRun,
		Threshold: opts.Threshold,
		Fields:    set.Fields,
		input:     set.Len(),
	}
	if set.Len() == 0 {
		res.Partition = newUnionFind(0).partition()
		res.Records = []contact.Record{}
		return res, nil
	}

	g, err := e.group(ctx, set.Records, opts.Threshold)
	if err != nil {
		return nil, err
	}
	res.Partition = g.partition
	res.comparisons = g.comparisons

	switch {
	case opts.Mode == ModeLink:
		res.Annotated = Link(set, g.partition, g.edges)
		res.Records = make([]contact.Record, len(res.Annotated))
		for i, ann := range res.Annotated {
			res.Records[i] = ann.Record()
		}
	case opts.DryRun:
		res.Proposals = e.propose(set, g)
		res.Records = append([]contact.Record(nil), set.Records...)
	default:
		res.Merged = MergeAll(set, g.partition)
		res.Records = make([]contact.Record, len(res.Merged))
		for i, m := range res.Merged {
			res.Records[i] = m.Record
			if m.Conflicts() {
				attrs := logging.DecisionAttrs("merge_conflict", "first_wins", "earliest non-empty value kept")
				attrs = append(attrs, logging.Int("representative", m.Members[0]), logging.Int("fields", len(m.Alternatives)))
				e.logger.Debug("merged cluster with conflicting values", logging.Args(attrs...)...)
			}
		}
	}

	stats := res.Stats()
	e.logger.Info(
		"deduplication complete",
		logging.String("mode", res.Mode.String()),
		logging.Bool("dry_run", res.DryRun),
		logging.Int("input", stats.Input),
		logging.Int("output", stats.Output),
		logging.Group("clusters",
			logging.Int("total", stats.Clusters),
			logging.Int("duplicate", stats.DuplicateClusters),
		),
		logging.Int("duplicates", stats.Duplicates),
	)
	return res, nil
}

func (e *Engine) propose(set contact.Set, g grouping) []Proposal {
	byCluster := make(map[int][]Edge)
	for _, edge := range g.edges {
		k := g.partition.ClusterIndex(edge.A)
		byCluster[k] = append(byCluster[k], edge)
	}

	var out []Proposal
	for k, members := range g.partition.clusters {
		if len(members) < 2 {
			continue
		}
		p := Proposal{
			Members: append([]int(nil), members...),
			Edges:   byCluster[k],
			Merged:  Merge(set, members),
		}
		p.Breakdowns = make([]map[textutil.FieldKind]float64, len(p.Edges))
		for i, edge := range p.Edges {
			p.Score = max(p.Score, edge.Score)
			p.Breakdowns[i] = e.scorer.Breakdown(set.Records[edge.A], set.Records[edge.B])
			e.logger.Debug(
				"dry run: would merge contact",
				logging.Int("contact", edge.B),
				logging.Int("into", edge.A),
				logging.Float64("score", edge.Score),
			)
		}
		out = append(out, p)
	}
	return out
}
