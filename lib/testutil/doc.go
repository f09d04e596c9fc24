// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for toolhierarchy
// packages.
//
// [WriteFile] writes a fixture into a per-test temporary directory and
// returns its path, for loader and config tests that exercise real
// files. [InDelta] compares floating-point results such as cosine
// scores and accuracies within a tolerance. [CaptureStdout] collects
// what a CLI command prints.
//
// All helpers call t.Fatalf (or t.Errorf) on failure rather than
// returning errors, since test setup failures are not recoverable.
//
// This package has no toolhierarchy-internal dependencies.
package testutil
