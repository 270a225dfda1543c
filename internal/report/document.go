package report

import (
	"contactmerge/internal/dedupe"
	"contactmerge/internal/textutil"
)

// Document is the serializable form of one dedupe run.
type Document struct {
	RunID     string     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Mode      string     `json:"mode" yaml:"mode"`
	DryRun    bool       `json:"dry_run" yaml:"dry_run"`
	Threshold float64    `json:"threshold" yaml:"threshold"`
	Summary   Summary    `json:"summary" yaml:"summary"`
	Proposals []Proposal `json:"proposals" yaml:"proposals"`
}

// Summary mirrors dedupe.Stats.
type Summary struct {
	Input             int `json:"input" yaml:"input"`
	Output            int `json:"output" yaml:"output"`
	Clusters          int `json:"clusters" yaml:"clusters"`
	DuplicateClusters int `json:"duplicate_clusters" yaml:"duplicate_clusters"`
	Duplicates        int `json:"duplicates" yaml:"duplicates"`
	Comparisons       int `json:"comparisons" yaml:"comparisons"`
}

// Proposal describes one cluster that a dry run would merge.
type Proposal struct {
	Into    int     `json:"into" yaml:"into"`
	Members []int   `json:"members" yaml:"members"`
	Score   float64 `json:"score" yaml:"score"`
	Pairs   []Pair  `json:"pairs" yaml:"pairs"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// Pair is one threshold-passing comparison inside a cluster. Signals holds
// the per-field ratios (phone, email, name) averaged into Score.
type Pair struct {
	Contact int                `json:"contact" yaml:"contact"`
	Match   int                `json:"match" yaml:"match"`
	Score   float64            `json:"score" yaml:"score"`
	Signals map[string]float64 `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// signalOrder is the display order of Pair.Signals.
var signalOrder = []textutil.FieldKind{textutil.KindPhone, textutil.KindEmail, textutil.KindName}

// Field is one field of a proposed merged contact.
type Field struct {
	Name         string   `json:"name" yaml:"name"`
	Value        string   `json:"value" yaml:"value"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// Build converts res into a Document tagged with runID.
func Build(res *dedupe.Result, runID string) Document {
	stats := res.Stats()
	doc := Document{
		RunID:     runID,
		Mode:      res.Mode.String(),
		DryRun:    res.DryRun,
		Threshold: res.Threshold,
		Summary: Summary{
			Input:             stats.Input,
			Output:            stats.Output,
			Clusters:          stats.Clusters,
			DuplicateClusters: stats.DuplicateClusters,
			Duplicates:        stats.Duplicates,
			Comparisons:       stats.Comparisons,
		},
		Proposals: make([]Proposal, 0, len(res.Proposals)),
	}
	for _, p := range res.Proposals {
		doc.Proposals = append(doc.Proposals, buildProposal(p))
	}
	return doc
}

func buildProposal(p dedupe.Proposal) Proposal {
	out := Proposal{
		Into:    p.Members[0],
		Members: append([]int(nil), p.Members...),
		Score:   p.Score,
		Pairs:   make([]Pair, 0, len(p.Edges)),
	}
	for i, e := range p.Edges {
		pair := Pair{Contact: e.B, Match: e.A, Score: e.Score}
		if i < len(p.Breakdowns) && len(p.Breakdowns[i]) > 0 {
			pair.Signals = make(map[string]float64, len(p.Breakdowns[i]))
			for kind, ratio := range p.Breakdowns[i] {
				pair.Signals[kind.String()] = ratio
			}
		}
		out.Pairs = append(out.Pairs, pair)
	}
	for _, f := range p.Merged.Record.Fields() {
		out.Fields = append(out.Fields, Field{
			Name:         f.Name,
			Value:        f.Value,
			Alternatives: p.Merged.Alternatives[f.Name],
		})
	}
	return out
}
