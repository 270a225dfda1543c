package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FieldKind selects the normalization rules for a comparison field.
type FieldKind int

const (
	KindPhone FieldKind = iota
	KindEmail
	KindName
)

// String returns the lowercase kind label used in logs and reports.
func (k FieldKind) String() string {
	switch k {
	case KindPhone:
		return "phone"
	case KindEmail:
		return "email"
	case KindName:
		return "name"
	default:
		return "unknown"
	}
}

// Normalize canonicalizes raw according to kind.
func Normalize(kind FieldKind, raw string) string {
	switch kind {
	case KindPhone:
		return NormalizePhone(raw)
	case KindEmail:
		return NormalizeEmail(raw)
	case KindName:
		return NormalizeName(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

// NormalizePhone keeps only the decimal digits of a phone number.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeName applies NFKC, lowercases, trims, and collapses internal
// whitespace runs to a single space.
func NormalizeName(raw string) string {
	normed := norm.NFKC.String(raw)
	return strings.Join(strings.Fields(strings.ToLower(normed)), " ")
}

// SplitValues splits a semicolon-joined multi-value field, trimming each part
// and dropping empty parts.
func SplitValues(raw string) []string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NormalizeValues splits raw and normalizes each part, dropping parts that
// normalize to nothing.
func NormalizeValues(kind FieldKind, raw string) []string {
	parts := SplitValues(raw)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := Normalize(kind, p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Tokenize splits text on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
