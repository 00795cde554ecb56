// Package wfc is the adjacency-rule model of cellwfc.
//
// A Module is a rigid assembly of unit cells (submodules) on the world
// lattice. Constructing a Module derives its face connectors and the
// internal rules that hold its submodules together. Rules between modules
// are authored either explicitly (connector to connector) or by tagging
// connectors with a type; typed rules expand into explicit ones, and
// explicit rules canonicalize into SolverRule triples for an external
// solver. Every value in this package is immutable once constructed.
package wfc
