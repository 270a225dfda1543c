package dedupe

import (
	"math"
	"testing"

	"contactmerge/internal/contact"
	"contactmerge/internal/textutil"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreIdentityIs100(t *testing.T) {
	s := NewScorer(DefaultFields())
	records := []contact.Record{
		contact.FromPairs("fn", "Ada Lovelace", "tel", "+44 20 7946 0018", "email", "ada@example.com"),
		contact.FromPairs("tel", "555-1234"),
		contact.FromPairs("email", "grace@navy.mil"),
		contact.FromPairs("fn", "  Grace   Hopper "),
	}
	for _, r := range records {
		if got := s.Score(r, r); got != 100 {
			t.Errorf("Score(r, r) = %v for %v, want 100", got, r.Names())
		}
	}
}

func TestScoreIsSymmetric(t *testing.T) {
	s := NewScorer(DefaultFields())
	a := contact.FromPairs("fn", "Ada Lovelace", "tel", "555-0100")
	b := contact.FromPairs("fn", "Ada King", "tel", "555-0199", "email", "ada@example.com")
	if s.Score(a, b) != s.Score(b, a) {
		t.Fatalf("Score not symmetric: %v vs %v", s.Score(a, b), s.Score(b, a))
	}
}

func TestScoreNoSharedSignalIsZero(t *testing.T) {
	s := NewScorer(DefaultFields())
	nameOnly := contact.FromPairs("fn", "Ada Lovelace", "tel", "", "email", "")
	contactOnly := contact.FromPairs("fn", "", "tel", "555-1234", "email", "ada@example.com")
	if got := s.Score(nameOnly, contactOnly); got != 0 {
		t.Errorf("Score(name only, contact only) = %v, want 0", got)
	}
	if got := s.Score(contact.Record{}, contact.Record{}); got != 0 {
		t.Errorf("Score(empty, empty) = %v, want 0", got)
	}
}

func TestScoreIgnoresPhoneWithoutDigits(t *testing.T) {
	s := NewScorer(DefaultFields())
	a := contact.FromPairs("fn", "Ada Lovelace", "tel", "unknown")
	b := contact.FromPairs("fn", "Ada Lovelace", "tel", "555-1234")
	if got := s.Score(a, b); got != 100 {
		t.Fatalf("Score = %v, want 100: a phone without digits must not count as a mismatch", got)
	}
}

func TestScoreAveragesContributingFields(t *testing.T) {
	s := NewScorer(DefaultFields())
	a := contact.FromPairs("fn", "Ada Lovelace", "tel", "1234567890")
	b := contact.FromPairs("fn", "Lovelace Ada", "tel", "1234567899")

	breakdown := s.Breakdown(a, b)
	if len(breakdown) != 2 {
		t.Fatalf("Breakdown = %v, want phone and name only", breakdown)
	}
	if breakdown[textutil.KindName] != 100 || !almostEqual(breakdown[textutil.KindPhone], 90) {
		t.Fatalf("Breakdown = %v", breakdown)
	}
	if got := s.Score(a, b); !almostEqual(got, 95) {
		t.Fatalf("Score = %v, want 95", got)
	}
}

func TestScoreUsesBestOfMultiValuedFields(t *testing.T) {
	s := NewScorer(DefaultFields())
	a := contact.FromPairs("tel", "111-1111; 555-1234")
	b := contact.FromPairs("tel", "(555) 1234")
	if got := s.Score(a, b); got != 100 {
		t.Fatalf("Score = %v, want 100", got)
	}
}

func TestScoreStaysInRange(t *testing.T) {
	s := NewScorer(DefaultFields())
	set := sampleSet()
	for _, a := range set.Records {
		for _, b := range set.Records {
			score := s.Score(a, b)
			if math.IsNaN(score) || score < 0 || score > 100 {
				t.Fatalf("Score(%v, %v) = %v", a.Names(), b.Names(), score)
			}
		}
	}
}

func TestScorerCustomFields(t *testing.T) {
	s := NewScorer(ScorerFields{Phone: "Mobile", Name: "Full Name"})
	if s.Fields().Email != "email" {
		t.Fatalf("empty names should fall back to defaults, got %+v", s.Fields())
	}

	a := contact.FromPairs("Full Name", "Ada Lovelace", "Mobile", "555 1234")
	b := contact.FromPairs("Full Name", "ada lovelace", "Mobile", "5551234")
	if got := s.Score(a, b); got != 100 {
		t.Fatalf("Score = %v, want 100", got)
	}
}

// Identical normalized phones with differing names and emails.
func TestScoreSharedPhone(t *testing.T) {
	e := NewEngine(WithWorkers(1))
	a := contact.FromPairs("fn", "John Smith", "tel", "555-1234", "email", "john@example.com")
	b := contact.FromPairs("fn", "Jon Smyth", "tel", "(555) 1234", "email", "jsmyth@example.org")

	if got := e.Scorer().Breakdown(a, b)[textutil.KindPhone]; got != 100 {
		t.Fatalf("phone ratio = %v, want 100", got)
	}

	wantClusters := 2
	if e.Scorer().Score(a, b) >= 85 {
		wantClusters = 1
	}
	if p := mustGroup(t, e, []contact.Record{a, b}, 85); p.Len() != wantClusters {
		t.Fatalf("got %d clusters, want %d", p.Len(), wantClusters)
	}

	phoneOnly := []contact.Record{
		contact.FromPairs("tel", "555-1234"),
		contact.FromPairs("tel", "555.1234"),
	}
	assertClusters(t, mustGroup(t, e, phoneOnly, 85), [][]int{{0, 1}})
}

// One side has only a name, the other only phone and email.
func TestScoreNoSharedSignalNeverClusters(t *testing.T) {
	e := NewEngine(WithWorkers(1))
	records := []contact.Record{
		contact.FromPairs("fn", "Ada Lovelace", "tel", "", "email", ""),
		contact.FromPairs("fn", "", "tel", "555-1234", "email", "ada@example.com"),
	}
	if got := e.Scorer().Score(records[0], records[1]); got != 0 {
		t.Fatalf("Score = %v, want 0", got)
	}
	for _, threshold := range []float64{0, 1, 50, 100} {
		if p := mustGroup(t, e, records, threshold); p.Len() != 2 {
			t.Errorf("threshold %v: got %d clusters, want 2", threshold, p.Len())
		}
	}
}
