// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolcatalog holds the static tool records and labelled test
// queries that a hierarchy evaluation runs against.
//
// A [Tool] is tagged with a domain (the subject area it operates on,
// such as "file" or "email") and an action (the verb it performs, such
// as "read" or "delete"). Those two tags are the only inputs the
// hierarchy builder groups on. A [TestQuery] pairs a natural-language
// request with the id of the tool it should resolve to.
//
// Catalogs are validated once, at construction, by [NewCatalog]: ids
// must be unique and non-empty, and every tool needs a description, a
// domain, and an action. After that a [Catalog] is read-only. Lookups
// of unknown ids fail with [*NotFoundError]; malformed or empty input
// fails with [*InvalidCatalogError].
//
// Datasets are plain declarative files. [LoadFile] reads YAML, JSON,
// JSONC (JSON with comments and trailing commas), or TOML, chosen by
// extension, and rejects unknown keys. [Builtin] returns the embedded
// reference dataset: five domains crossed with three actions, with
// labelled queries for every tool.
//
// [Synthesizer] grows or shrinks a dataset to an arbitrary tool count
// for the scaling sweep. [SuggestIDs] ranks catalog ids against a
// mistyped one using fzf's matching algorithm.
package toolcatalog
