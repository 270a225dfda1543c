package dedupe

import (
	"fmt"
	"strings"
)

// Mode selects what Run does with the duplicate clusters.
type Mode string

const (
	// ModeLink annotates every record with match and certainty.
	ModeLink Mode = "link"
	// ModeMerge collapses every cluster into a single record.
	ModeMerge Mode = "merge"
)

// ParseMode converts a case-insensitive mode name.
func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

// Validate reports ErrInvalidMode for unknown modes.
func (m Mode) Validate() error {
	switch m {
	case ModeLink, ModeMerge:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected link or merge)", ErrInvalidMode, string(m))
	}
}

func (m Mode) String() string {
	return string(m)
}
