package dedupe

import (
	"strconv"
	"strings"

	"contactmerge/internal/contact"
)

// AnnotatedRecord is a linking-mode output row: the untouched source record
// plus its cluster identifier and best in-cluster score.
type AnnotatedRecord struct {
	Index     int
	Source    contact.Record
	Match     string
	Certainty float64
	// Linked is false for singleton clusters, whose Match and Certainty are
	// emitted empty.
	Linked bool
}

// CertaintyString formats Certainty with two decimals, or "" when unlinked.
func (a AnnotatedRecord) CertaintyString() string {
	if !a.Linked {
		return ""
	}
	return strconv.FormatFloat(a.Certainty, 'f', 2, 64)
}

// Record returns the source record with the match and certainty fields set.
// Values left over from an earlier run are overwritten.
func (a AnnotatedRecord) Record() contact.Record {
	return a.Source.
		With(contact.FieldMatch, a.Match).
		With(contact.FieldCertainty, a.CertaintyString())
}

// Link annotates every record of set with its cluster. Certainty is the
// highest edge score touching the record. Pairs inside a cluster that are
// not edges scored below the threshold, so this is also the best score
// against any other member.
func Link(set contact.Set, p *Partition, edges []Edge) []AnnotatedRecord {
	best := make([]float64, set.Len())
	for _, edge := range edges {
		best[edge.A] = max(best[edge.A], edge.Score)
		best[edge.B] = max(best[edge.B], edge.Score)
	}

	out := make([]AnnotatedRecord, set.Len())
	for i, r := range set.Records {
		ann := AnnotatedRecord{Index: i, Source: r}
		if p.Size(i) > 1 {
			ann.Linked = true
			ann.Match = strconv.Itoa(p.Representative(i))
			ann.Certainty = best[i]
		}
		out[i] = ann
	}
	return out
}

// MergedRecord is the consolidated record of one cluster.
type MergedRecord struct {
	Members []int
	Record  contact.Record
	// Alternatives lists, per field, the distinct non-empty values that lost
	// to the first-wins rule, in input order.
	Alternatives map[string][]string
}

// Conflicts reports whether any field had more than one distinct value.
func (m MergedRecord) Conflicts() bool {
	return len(m.Alternatives) > 0
}

// Merge folds the members of one cluster into a single record. Fields follow
// set.Fields; each takes the first non-empty member value in input order.
// A field present on some member but empty everywhere is kept empty. A
// single-member cluster passes through unchanged apart from match and
// certainty annotations left by an earlier linking run, which are dropped
// because their indices no longer point at anything.
func Merge(set contact.Set, members []int) MergedRecord {
	merged := MergedRecord{Members: append([]int(nil), members...)}
	if len(members) == 1 {
		merged.Record = set.Records[members[0]].Without(contact.FieldMatch, contact.FieldCertainty)
		return merged
	}

	fields := make([]contact.Field, 0, len(set.Fields))
	for _, name := range set.Fields {
		present := false
		var winner string
		var seen []string
		for _, m := range members {
			value, ok := set.Records[m].Get(name)
			if !ok {
				continue
			}
			present = true
			key := strings.TrimSpace(value)
			if key == "" || containsString(seen, key) {
				continue
			}
			if len(seen) == 0 {
				winner = value
			} else {
				merged.addAlternative(name, value)
			}
			seen = append(seen, key)
		}
		if present {
			fields = append(fields, contact.Field{Name: name, Value: winner})
		}
	}
	merged.Record = contact.NewRecord(fields...)
	return merged
}

func (m *MergedRecord) addAlternative(name, value string) {
	if m.Alternatives == nil {
		m.Alternatives = make(map[string][]string)
	}
	m.Alternatives[name] = append(m.Alternatives[name], value)
}

// MergeAll merges every cluster of p in cluster order.
func MergeAll(set contact.Set, p *Partition) []MergedRecord {
	out := make([]MergedRecord, p.Len())
	for k := range p.clusters {
		out[k] = Merge(set, p.clusters[k])
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
