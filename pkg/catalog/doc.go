// Package catalog collects module declarations and adjacency rules as
// produced by a rule script, validates them in tiers, and compiles them to
// the canonical rule list a solver consumes.
//
// A Catalog is plain data. Building it constructs every wfc.Module in
// parallel; compiling it expands typed rules against the built modules,
// drops everything that fails validation (with a warning explaining why),
// and deduplicates the result.
package catalog
