package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	// Source errors
	ErrSourceMissing = errors.New("input table not found")
	ErrSchemaDrift   = errors.New("required column missing")

	// Cleaning errors
	ErrMalformedPercent = errors.New("malformed percentage value")
	ErrMalformedCount   = errors.New("malformed integer value")
	ErrMissingName      = errors.New("school name missing")
	ErrDuplicateSchool  = errors.New("duplicate school name")

	// Control errors
	ErrUnknownVisualization = errors.New("unknown visualization")
)

// IsDataQualityError reports whether err came from a malformed input cell
func IsDataQualityError(err error) bool {
	return errors.Is(err, ErrMalformedPercent) ||
		errors.Is(err, ErrMalformedCount) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrDuplicateSchool)
}
