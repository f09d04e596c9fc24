// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for toolhierarchy
// evaluation runs.
//
// A run configuration names the dataset to evaluate, the embedding
// models to compare, the hierarchy strategies to run against each
// model, the tool counts for the scaling sweep, and where output goes.
// It is loaded from a single file given by either the
// TOOLHIERARCHY_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no ~/.config discovery and no
// automatic file search. When neither is given the CLI runs [Default],
// which evaluates the builtin dataset with the local hashing model.
//
// Variable expansion is performed on path and endpoint fields after
// loading: ${VAR} and ${VAR:-default} patterns are expanded from the
// environment. No other environment variables override config values;
// API keys are read by the embedding provider from the variable named
// in api_key_env and never stored in the file.
//
// Unknown keys are rejected at load time so that a misspelled section
// fails loudly instead of silently falling back to a default.
//
// Key exports:
//
//   - [Config] -- master struct with Dataset, Models, Strategies, Scale, Output
//   - [Default] -- a Config that runs with no file at all
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- cross-field checks, all errors joined
//
// This package depends on no other toolhierarchy packages.
package config
