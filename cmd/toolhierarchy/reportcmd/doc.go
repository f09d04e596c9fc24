// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package reportcmd implements the report command group, which
// re-renders archives saved by compare and scale after checking that
// their contents still match the recorded fingerprint.
package reportcmd
