// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hierarchy partitions a tool catalog into routing groups.
//
// A [Strategy] names the grouping key: [Flat] puts every tool in one
// group, [ByDomain] and [ByAction] group on one tag, and
// [ByDomainAction] groups on the composite "domain/action" key. The key
// is a pure function of the tool, so every tool lands in exactly one
// group and the union of the groups is the catalog. Groups are ordered
// by key and member tool ids are ordered lexically; both orders are
// the tie-break order used when matching.
//
// Each group has a routing text, "<label> operations: <intent>", whose
// embedding is the group's representative vector for top-level
// routing. [Hierarchy.RoutingVectors] embeds these lazily on first use
// through an [embedding.Session] and keeps them for the hierarchy's
// lifetime, one set per model. Intents come from the dataset when it
// provides them and are generated from the tag otherwise.
//
// Building from an empty catalog fails with
// [*toolcatalog.InvalidCatalogError].
package hierarchy
