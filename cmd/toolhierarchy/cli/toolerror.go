// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bureau-foundation/toolhierarchy/lib/embedding"
	"github.com/bureau-foundation/toolhierarchy/lib/matcher"
	"github.com/bureau-foundation/toolhierarchy/lib/report"
	"github.com/bureau-foundation/toolhierarchy/lib/toolcatalog"
)

// ErrorCategory classifies command errors so that scripts can make
// decisions (retry, fix input, give up) without parsing error text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// bad flags, wrong argument count, a malformed catalog or config.
	// The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown tool id, unknown model or strategy name, missing file.
	// Retrying with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, rate limit from an embedding endpoint. The caller should
	// back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, corrupted archives. The caller should report the error
	// rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode maps a category onto the process exit status.
func (category ErrorCategory) ExitCode() int {
	switch category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryTransient:
		return 4
	default:
		return 1
	}
}

// ToolError is a categorized error returned by CLI commands.
//
// ToolError wraps an inner error, preserving the full error chain for
// debugging while adding category metadata. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional next step appended to the message, such as
	// a "did you mean" suggestion.
	Hint string
}

// Error returns the underlying error message followed by the hint, if
// any. The category is not included in the string.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify returns err as a *ToolError, categorising the library error
// types it wraps. An error that already carries a ToolError keeps its
// category. Nil stays nil.
func Classify(err error) *ToolError {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}

	category := CategoryInternal
	var (
		notFound       *toolcatalog.NotFoundError
		invalid        *toolcatalog.InvalidCatalogError
		emptyHierarchy *matcher.EmptyHierarchyError
		providerErr    *embedding.ProviderError
		fingerprint    *report.FingerprintError
		netErr         net.Error
	)
	switch {
	case errors.As(err, &notFound):
		category = CategoryNotFound
	case errors.As(err, &invalid), errors.As(err, &emptyHierarchy):
		category = CategoryValidation
	case errors.As(err, &providerErr):
		category = providerCategory(providerErr)
	case errors.As(err, &fingerprint):
		category = CategoryInternal
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: err}
}

// providerCategory treats rate limits, server errors, and transport
// failures as transient, other HTTP errors as bad input, and anything
// else (dimension mismatches, malformed vectors) as internal.
func providerCategory(err *embedding.ProviderError) ErrorCategory {
	switch {
	case err.StatusCode == 429 || err.StatusCode >= 500:
		return CategoryTransient
	case err.StatusCode == 404:
		return CategoryNotFound
	case err.StatusCode >= 400:
		return CategoryValidation
	}
	var netErr net.Error
	if errors.As(err.Err, &netErr) {
		return CategoryTransient
	}
	return CategoryInternal
}
