// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package setup turns a loaded run configuration into the pieces an
// evaluation command needs: the dataset, an embedding provider routing
// every configured model, and the strategies and models selected on
// the command line.
//
// Commands call [Load] once per invocation:
//
//	env, err := setup.Load(globals, nil)
//	strategies, err := env.Strategies(params.Strategies)
//	models, err := env.Models(params.Models)
//	reports, err := env.Evaluator(logger, nil).CompareStrategies(ctx, env.Dataset, strategies, models)
//
// Names that the configuration does not define fall back to ad hoc
// entries: a grouping name ("flat", "domain", ...) selects that
// grouping matched by embedding, and a "hashing-<dimensions>" model
// id registers a local hashing model of that size.
package setup
