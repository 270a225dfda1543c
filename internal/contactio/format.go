package contactio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"contactmerge/internal/contact"
)

// ErrUnknownFormat reports a format name or file extension that is neither
// CSV nor vCard.
var ErrUnknownFormat = errors.New("unknown contact format")

// Format identifies a contact file encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatVCF Format = "vcf"
)

// ParseFormat parses a format name. "vcard" is accepted for FormatVCF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "vcf", "vcard":
		return FormatVCF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".vcf", ".vcard":
		return FormatVCF, nil
	default:
		return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
	}
}

// Resolve returns the explicit format when given, otherwise the one implied
// by path.
func Resolve(explicit, path string) (Format, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseFormat(explicit)
	}
	return DetectFormat(path)
}

// Label is the upper-case name used in user-facing messages.
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// Read decodes records in format f.
func Read(r io.Reader, f Format) ([]contact.Record, error) {
	switch f {
	case FormatCSV:
		return ReadCSV(r)
	case FormatVCF:
		return ReadVCard(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// Write encodes records in format f using the given field order.
func Write(w io.Writer, f Format, records []contact.Record, fields contact.FieldOrder) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, records, fields)
	case FormatVCF:
		return WriteVCard(w, records, fields)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// exportOrder extends fields with any non-synthetic name that appears in
// records but not in fields, in first-seen order.
func exportOrder(records []contact.Record, fields contact.FieldOrder) contact.FieldOrder {
	order := make(contact.FieldOrder, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	add := func(name string) {
		if contact.IsSynthetic(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	for _, name := range fields {
		add(name)
	}
	for _, r := range records {
		for _, name := range r.Names() {
			add(name)
		}
	}
	return order
}
