package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data integrity errors: a sample's counts cannot yield meaningful
	// percentages. Fatal for the computation that hit them.
	ErrDataIntegrity     = errors.New("data integrity violation")
	ErrZeroTotal         = fmt.Errorf("%w: total cell count is not positive", ErrDataIntegrity)
	ErrMissingPopulation = fmt.Errorf("%w: sample is missing a population row", ErrDataIntegrity)
	ErrUnknownPopulation = fmt.Errorf("%w: population outside the fixed set", ErrDataIntegrity)
	ErrDuplicateCount    = fmt.Errorf("%w: duplicate population row", ErrDataIntegrity)

	// Store errors are surfaced unchanged from the relational store; the
	// analytical layer never retries them.
	ErrStoreAccess = errors.New("store access failed")

	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewZeroTotalError(sampleID string) error {
	return fmt.Errorf("%w: sample %s", ErrZeroTotal, sampleID)
}

func NewMissingPopulationError(sampleID, population string) error {
	return fmt.Errorf("%w: sample %s lacks %s", ErrMissingPopulation, sampleID, population)
}

func NewUnknownPopulationError(sampleID, population string) error {
	return fmt.Errorf("%w: sample %s has %s", ErrUnknownPopulation, sampleID, population)
}

func NewDuplicateCountError(sampleID, population string) error {
	return fmt.Errorf("%w: sample %s population %s", ErrDuplicateCount, sampleID, population)
}

func NewStoreAccessError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreAccess, op, err)
}

// Error checking helpers
func IsDataIntegrityError(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}

func IsStoreAccessError(err error) bool {
	return errors.Is(err, ErrStoreAccess)
}
