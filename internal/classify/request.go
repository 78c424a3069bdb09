package classify

import (
	"errors"
	"strings"
)

const (
	// MinDescriptionLen is the minimum trimmed description length.
	MinDescriptionLen = 10
	// MaxSupplierLen is the maximum trimmed supplier length.
	MaxSupplierLen = 80
)

var (
	ErrEmptyDescription = errors.New("description is required")
	ErrShortDescription = errors.New("description must be at least 10 characters")
	ErrLongSupplier     = errors.New("supplier name must be 80 characters or fewer")
)

// Request is a validated classification input. Fields are trimmed and never
// mutated after construction.
type Request struct {
	Description string
	Supplier    string
}

// NewRequest trims and validates the inputs.
func NewRequest(description, supplier string) (Request, error) {
	description = strings.TrimSpace(description)
	supplier = strings.TrimSpace(supplier)

	if description == "" {
		return Request{}, ErrEmptyDescription
	}
	if len(description) < MinDescriptionLen {
		return Request{}, ErrShortDescription
	}
	if len(supplier) > MaxSupplierLen {
		return Request{}, ErrLongSupplier
	}
	return Request{Description: description, Supplier: supplier}, nil
}

// CacheKey folds the request into the session cache key: whitespace trimmed,
// case ignored.
func CacheKey(description, supplier string) string {
	return strings.ToLower(strings.TrimSpace(description)) + "|" + strings.ToLower(strings.TrimSpace(supplier))
}
