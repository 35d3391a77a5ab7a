package domain

import (
	"fmt"
	"strings"
)

// ExhaustionError signals that the selector could not find an unused
// combination within its attempt budget. Terminal for the run; widening a
// taxonomy is the only remedy.
type ExhaustionError struct {
	Attempts int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("no unused topic combination after %d attempts, combination space may be exhausted", e.Attempts)
}

// GenerationError wraps a text-generator failure that survived its retries.
type GenerationError struct {
	Topic Topic
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate content for %s: %v", e.Topic.Key(), e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports content that stayed unsafe after the single
// sanitization pass allowed per run.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s (%s)", v.Rule, v.Detail)
	}
	return "content validation failed: " + strings.Join(parts, "; ")
}

// PublishError means delivery failed even after retry and the draft fallback.
type PublishError struct {
	Status   PostStatus
	Attempts int
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish with status %q failed after %d attempts: %v", e.Status, e.Attempts, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// StorageError wraps ledger failures. Fatal: without the ledger there is no
// duplicate prevention, so the run must not proceed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
