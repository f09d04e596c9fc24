// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete toolhierarchy command tree.
// Every command shares one [cli.Globals], so --config and --log-level
// are accepted before the command name or among its own flags.
package commands
