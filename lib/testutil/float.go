// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"math"
)

// InDelta reports an error when got and want differ by more than
// delta.
//
//	testutil.InDelta(t, report.Accuracy, 0.5, 1e-9, "overall accuracy")
func InDelta(t interface {
	Helper()
	Errorf(format string, args ...any)
}, got, want, delta float64, msgAndArgs ...any) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("%s: got %v, want %v (±%v)", formatMessage(msgAndArgs), got, want, delta)
	}
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
