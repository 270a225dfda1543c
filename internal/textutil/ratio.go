package textutil

import (
	"sort"
	"strings"
)

// Ratio returns the normalized indel similarity of a and b on a 0-100 scale:
// 100 * 2*lcs / (len(a)+len(b)), measured in runes. Only insertions and
// deletions count, so a substitution costs two. Two empty strings are
// identical; one empty string scores 0.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 100 * float64(2*lcsLength(ra, rb)) / float64(total)
}

// lcsLength returns the length of the longest common subsequence of a and b.
func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, ca := range a {
		for j, cb := range b {
			switch {
			case ca == cb:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// TokenSetRatio compares the token sets of a and b. Shared tokens are sorted
// and compared against each side's sorted remainder; the best of the three
// pairings wins. Token order and duplicated tokens do not affect the score.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	if len(shared) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := joinSorted(shared)
	combinedA := strings.TrimSpace(sect + " " + joinSorted(onlyA))
	combinedB := strings.TrimSpace(sect + " " + joinSorted(onlyB))

	best := Ratio(combinedA, combinedB)
	if sect != "" {
		best = max(best, Ratio(sect, combinedA), Ratio(sect, combinedB))
	}
	return best
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(strings.ToLower(text))
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func joinSorted(tokens []string) string {
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
