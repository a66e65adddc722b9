// Package prioritize orders label candidates so that the most important
// points of a series come first.
//
// # Overview
//
// A chart rarely has room to label every point. Given a label budget k,
// [Indices] returns a permutation of the series whose first min(2k, n)
// entries make a good rendering set. The extra slack absorbs candidates the
// placement engine later fails to fit.
//
// # Passes
//
// The order is built in four passes:
//
//  1. Mandatory points: first, last, global maximum and global minimum.
//  2. Weighted local extrema of a Gaussian-smoothed copy of the series,
//     heaviest first. See [Extrema].
//  3. Filler by recursive bisection of the longest unlabelled run, so the
//     remaining budget spreads evenly along the series.
//  4. Everything else in index order, so the result is always a full
//     permutation and callers can truncate it like a priority queue.
//
// Missing values (nil) are skipped when locating extrema but still take part
// in the permutation.
//
// # Weights
//
// Each extremum is weighted by how far it sits from its neighbouring extrema
// in both value (after [Axis] scaling) and index. Extrema lighter than
// [WeightThreshold] carry no weight and are only reachable through the
// filler pass.
package prioritize
