package dedupe

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidThreshold is returned when a threshold falls outside [0, 100].
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrInvalidMode is returned for a mode other than link or merge.
	ErrInvalidMode = errors.New("invalid mode")
)

// ValidateThreshold rejects NaN and values outside [0, 100].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: %v (must be between 0 and 100)", ErrInvalidThreshold, threshold)
	}
	return nil
}
