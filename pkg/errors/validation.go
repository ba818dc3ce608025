package errors

import "strings"

// Validation helpers shared by the CLI, server, and pipeline. They reject
// bad input before any page is drawn; everything past these checks either
// renders or degrades, it never aborts.

// ValidateText validates a required text input such as the symbol-sheet
// value. Whitespace-only counts as empty.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "text must not be empty")
	}
	return nil
}

// ValidatePageCount validates a requested page count.
func ValidatePageCount(pages int) error {
	if pages < 1 {
		return New(ErrCodeInvalidInput, "pages must be at least 1, got %d", pages)
	}
	return nil
}

// ValidateRepeatCount validates the per-cell repeat count.
func ValidateRepeatCount(repeat int) error {
	if repeat < 1 {
		return New(ErrCodeInvalidInput, "repeat must be at least 1, got %d", repeat)
	}
	return nil
}

// ValidateSizeRange validates a font size search range.
func ValidateSizeRange(minSize, maxSize int) error {
	if minSize < 1 {
		return New(ErrCodeInvalidInput, "minimum font size must be at least 1, got %d", minSize)
	}
	if maxSize < minSize {
		return New(ErrCodeInvalidInput, "maximum font size %d is below minimum %d", maxSize, minSize)
	}
	return nil
}

// ValidateWeights validates column weights: at least one, all positive, so
// the weighted partition always covers the full width.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return New(ErrCodeInvalidInput, "at least one column weight is required")
	}
	for i, w := range weights {
		if w <= 0 {
			return New(ErrCodeInvalidInput, "column weight %d must be positive, got %v", i+1, w)
		}
	}
	return nil
}

// ValidateDimension validates a page or cell dimension in points.
func ValidateDimension(name string, v float64) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", name, v)
	}
	return nil
}
