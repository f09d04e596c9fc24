// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the toolhierarchy
// CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree by the commands
// package and dispatched via [Command.Execute], which handles flag
// parsing, subcommand routing, and structured help output with examples.
//
// [Globals] carries the flags every command accepts (--config and
// --log-level). They may appear before the subcommand name or among the
// subcommand's own flags. Globals also owns the run configuration and
// the command logger, so each command loads them the same way.
//
// Parameter structs declare their flags with struct tags and bind them
// via [FlagsFromParams]; embedding [JSONOutput] adds --json.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Errors returned by commands are classified into [ToolError] categories
// by [Classify], so callers and scripts can tell bad input from missing
// resources from transient provider failures.
package cli
