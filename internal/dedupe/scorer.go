package dedupe

import (
	"contactmerge/internal/contact"
	"contactmerge/internal/textutil"
)

// ScorerFields names the record fields compared by the Scorer.
type ScorerFields struct {
	Phone string
	Email string
	Name  string
}

// DefaultFields returns the vCard-style field names tel, email, and fn.
func DefaultFields() ScorerFields {
	return ScorerFields{Phone: "tel", Email: "email", Name: "fn"}
}

// Scorer computes the similarity of two records on a 0-100 scale.
type Scorer struct {
	fields ScorerFields
}

// NewScorer builds a scorer. Empty field names fall back to DefaultFields.
func NewScorer(fields ScorerFields) *Scorer {
	def := DefaultFields()
	if fields.Phone == "" {
		fields.Phone = def.Phone
	}
	if fields.Email == "" {
		fields.Email = def.Email
	}
	if fields.Name == "" {
		fields.Name = def.Name
	}
	return &Scorer{fields: fields}
}

// Fields returns the field names in use.
func (s *Scorer) Fields() ScorerFields {
	return s.fields
}

// Score returns the mean of the per-field ratios for the fields that carry
// signal on both records, or 0 when no field does.
func (s *Scorer) Score(a, b contact.Record) float64 {
	return compareProfiles(s.profile(a), s.profile(b))
}

// Breakdown returns the per-field ratios that contributed to Score, keyed by
// textutil.FieldKind. Fields without shared signal are absent.
func (s *Scorer) Breakdown(a, b contact.Record) map[textutil.FieldKind]float64 {
	pa, pb := s.profile(a), s.profile(b)
	out := make(map[textutil.FieldKind]float64, 3)
	if v, ok := bestRatio(pa.phones, pb.phones); ok {
		out[textutil.KindPhone] = v
	}
	if v, ok := bestRatio(pa.emails, pb.emails); ok {
		out[textutil.KindEmail] = v
	}
	if pa.name != "" && pb.name != "" {
		out[textutil.KindName] = textutil.TokenSetRatio(pa.name, pb.name)
	}
	return out
}

// profile holds the normalized comparison values of one record.
type profile struct {
	phones []string
	emails []string
	name   string
}

func (p profile) hasSignal() bool {
	return len(p.phones) > 0 || len(p.emails) > 0 || p.name != ""
}

func (s *Scorer) profile(r contact.Record) profile {
	name := textutil.NormalizeName(r.Value(s.fields.Name))
	// A name made only of punctuation has no tokens to compare.
	if len(textutil.Tokenize(name)) == 0 {
		name = ""
	}
	return profile{
		phones: textutil.NormalizeValues(textutil.KindPhone, r.Value(s.fields.Phone)),
		emails: textutil.NormalizeValues(textutil.KindEmail, r.Value(s.fields.Email)),
		name:   name,
	}
}

func (s *Scorer) profiles(records []contact.Record) []profile {
	out := make([]profile, len(records))
	for i, r := range records {
		out[i] = s.profile(r)
	}
	return out
}

func compareProfiles(a, b profile) float64 {
	var sum float64
	var n int
	if v, ok := bestRatio(a.phones, b.phones); ok {
		sum += v
		n++
	}
	if v, ok := bestRatio(a.emails, b.emails); ok {
		sum += v
		n++
	}
	if a.name != "" && b.name != "" {
		sum += textutil.TokenSetRatio(a.name, b.name)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// bestRatio returns the highest Ratio over every pairing of a and b. ok is
// false when either side is empty.
func bestRatio(a, b []string) (best float64, ok bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	for _, x := range a {
		for _, y := range b {
			if r := textutil.Ratio(x, y); r > best {
				best = r
			}
		}
	}
	return best, true
}
