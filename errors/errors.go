/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidContinuation is returned when a change-feed continuation token
	// is malformed or carries an unsupported version. It is fatal: callers must
	// not retry with the same token.
	ErrInvalidContinuation = errors.New("invalid continuation token")

	// ErrFeedRangeGone is returned when the physical partition backing a feed
	// range has been split or merged. Recoverable: refresh the feed range
	// against current topology and retry the same logical page.
	ErrFeedRangeGone = errors.New("feed range gone")

	// ErrEmptyResolution is returned when a partition key value maps to zero
	// physical partitions in the current topology.
	ErrEmptyResolution = errors.New("partition resolution empty")
)

// NotFoundError represents an error when a document is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidContinuationError describes why a continuation token was rejected
type InvalidContinuationError struct {
	Reason string
}

func (e *InvalidContinuationError) Error() string {
	return fmt.Sprintf("invalid continuation token: %s", e.Reason)
}

func (e *InvalidContinuationError) Is(target error) bool {
	return target == ErrInvalidContinuation
}

// FeedRangeGoneError reports a topology mismatch for one feed range
type FeedRangeGoneError struct {
	ContainerID string
	Min         string
	Max         string
}

func (e *FeedRangeGoneError) Error() string {
	return fmt.Sprintf("feed range [%s, %s) in container %q is gone: partition split or merged", e.Min, e.Max, e.ContainerID)
}

func (e *FeedRangeGoneError) Is(target error) bool {
	return target == ErrFeedRangeGone
}

// EmptyResolutionError reports a partition key value that resolved to zero
// physical partitions
type EmptyResolutionError struct {
	ContainerID  string
	PartitionKey string
}

func (e *EmptyResolutionError) Error() string {
	return fmt.Sprintf("partition key %q in container %q resolved to no physical partition", e.PartitionKey, e.ContainerID)
}

func (e *EmptyResolutionError) Is(target error) bool {
	return target == ErrEmptyResolution
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(docType, key string) error {
	return &NotFoundError{Type: docType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewInvalidContinuationError creates a new InvalidContinuationError
func NewInvalidContinuationError(reason string) error {
	return &InvalidContinuationError{Reason: reason}
}

// NewFeedRangeGoneError creates a new FeedRangeGoneError
func NewFeedRangeGoneError(containerID, min, max string) error {
	return &FeedRangeGoneError{ContainerID: containerID, Min: min, Max: max}
}

// NewEmptyResolutionError creates a new EmptyResolutionError
func NewEmptyResolutionError(containerID, partitionKey string) error {
	return &EmptyResolutionError{ContainerID: containerID, PartitionKey: partitionKey}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidContinuation checks if an error is an invalid continuation error
func IsInvalidContinuation(err error) bool {
	return errors.Is(err, ErrInvalidContinuation)
}

// IsFeedRangeGone checks if an error is a feed range gone error
func IsFeedRangeGone(err error) bool {
	return errors.Is(err, ErrFeedRangeGone)
}

// IsEmptyResolution checks if an error is an empty resolution error
func IsEmptyResolution(err error) bool {
	return errors.Is(err, ErrEmptyResolution)
}
