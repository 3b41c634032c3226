package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmptyAbundance = fmt.Errorf("%w: no positive abundance counts", ErrInvalidInput)

	// Model selection errors
	ErrUnsupportedModel = errors.New("unsupported model variant")

	// Inference errors
	ErrOptimizationFailure = errors.New("likelihood optimization failed to converge")
	ErrUnreachableTarget   = errors.New("saturation target exceeds model asymptote")

	// Long-running computation errors
	ErrCancelled = errors.New("computation cancelled")
)

// Error constructors with context
func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewUnsupportedModelError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedModel, name)
}

func NewOptimizationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrOptimizationFailure, detail)
}

func NewUnreachableTargetError(level, ceiling float64) error {
	return fmt.Errorf("%w: requested %.4f, reachable %.4f", ErrUnreachableTarget, level, ceiling)
}

func NewCancelledError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrCancelled, op, cause)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsUnsupportedModel(err error) bool {
	return errors.Is(err, ErrUnsupportedModel)
}

func IsOptimizationFailure(err error) bool {
	return errors.Is(err, ErrOptimizationFailure)
}

func IsUnreachableTarget(err error) bool {
	return errors.Is(err, ErrUnreachableTarget)
}

func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
