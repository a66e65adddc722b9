// Package geom provides the geometry primitives used by label placement.
//
// # Coordinate Spaces
//
// Two spaces are involved when placing a label:
//
//   - Native space: the space anchor shapes are stored in (e.g. projected map
//     coordinates for a filled map, or data-space pixels for a column chart).
//   - Screen space: the space label offsets and text sizes are expressed in.
//
// A [Transform] maps native to screen space as translate -> scale -> translate.
// Label rectangles are computed in screen space and mapped back through
// [Transform.Inverse] before containment is tested against an anchor.
//
// # Shapes
//
// [Shape] is a tagged union over [Rect] and [Polygon]. Use [RectShape] and
// [PolygonShape] to build one, then call [Shape.Centroid],
// [Shape.BoundingRect] and [Shape.Contains] without caring which kind it is.
//
// # Degenerate Input
//
// Nothing in this package panics on degenerate input. Empty rectangles never
// intersect or contain anything, and polygons with fewer than three vertices
// or zero area never contain anything.
package geom
