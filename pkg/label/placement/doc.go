// Package placement positions label rectangles around their anchors without
// overlapping each other.
//
// [Place] walks an ordered candidate list once. For every candidate it tries
// the candidate's positions in preference order and accepts the first
// rectangle that
//
//   - lies inside the viewport,
//   - does not touch a rectangle accepted earlier in the pass, and
//   - is contained by the anchor shape, when the position requires it.
//
// A candidate with no acceptable position is recorded as invisible. Accepted
// rectangles are never revisited, so the outcome depends only on the order of
// the input, which is why candidates are usually sorted by the prioritize
// package first.
//
// # Coordinate spaces
//
// Offsets and label sizes are screen units. Anchors live in their native
// space and are mapped through a [geom.Transform]; containment is decided by
// mapping the label rectangle back with the inverse transform, so labels keep
// a fixed on-screen gap at any zoom level.
package placement
