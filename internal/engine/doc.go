// Package engine filters and counts address records.
//
// Every function is a pure transformation over a read-only View. A View
// holds indices into an immutable core.Dataset, so filtered views share
// storage with the dataset and never modify it. Concurrent callers need no
// locking.
//
// Empty selections are not "no filter": a predicate whose allowed set is
// empty retains zero rows. Callers that want a dimension unconstrained must
// omit the predicate.
package engine
