// Package solverio writes the document handed to an external
// wave-function-collapse solver and reads its answer back.
//
// A Document lists the canonical solver rules, the submodule universe, and
// the candidate set of every slot. It encodes to YAML, TOML or JSON.
package solverio
