// Package source provides the followers an analysis runs over.
//
// A Source hides where followers come from. MockSource generates a
// deterministic synthetic population for demos and tests; FileSource imports
// a follower export written as JSON or YAML. Live platform clients would be
// further implementations of the same interface.
package source
