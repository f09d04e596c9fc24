// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalogcmd implements the catalog command group: listing and
// inspecting the tools of the configured dataset, and validating
// dataset and query files before they are used in an evaluation.
package catalogcmd
