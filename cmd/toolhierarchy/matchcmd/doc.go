// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package matchcmd implements the match command, which resolves one
// free-text request to a tool and shows how the hierarchy routed it.
package matchcmd
