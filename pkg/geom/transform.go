package geom

// Transform maps native coordinates to screen coordinates by applying a
// translation, then a scale, then a second translation:
//
//	screen = (native + translate) * scale + post
//
// The zero value is not the identity; use [IdentityTransform].
type Transform struct {
	translate Point
	scale     Point
	post      Point
}

// NewTransform builds a translate -> scale -> translate transform.
func NewTransform(translate, scale, post Point) Transform {
	return Transform{translate: translate, scale: scale, post: post}
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{scale: Point{X: 1, Y: 1}}
}

// Translate returns the translation applied before scaling.
func (t Transform) Translate() Point { return t.translate }

// Scale returns the per-axis scale factors.
func (t Transform) Scale() Point { return t.scale }

// PostTranslate returns the translation applied after scaling.
func (t Transform) PostTranslate() Point { return t.post }

// Apply maps a native point into screen space.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: (p.X+t.translate.X)*t.scale.X + t.post.X,
		Y: (p.Y+t.translate.Y)*t.scale.Y + t.post.Y,
	}
}

// ApplyRect maps a rectangle corner-wise. A negative scale flips the
// rectangle, so the result is re-normalised.
func (t Transform) ApplyRect(r Rect) Rect {
	return RectFromPoints(
		t.Apply(Point{X: r.Left, Y: r.Top}),
		t.Apply(Point{X: r.Right(), Y: r.Bottom()}),
	)
}

// Inverse returns the transform mapping screen space back to native space.
// The inverse of translate -> scale -> translate has the same form. A zero
// scale factor is not invertible; that axis is left unscaled.
func (t Transform) Inverse() Transform {
	inv := Point{X: 1, Y: 1}
	if t.scale.X != 0 {
		inv.X = 1 / t.scale.X
	}
	if t.scale.Y != 0 {
		inv.Y = 1 / t.scale.Y
	}
	return Transform{
		translate: Point{X: -t.post.X, Y: -t.post.Y},
		scale:     inv,
		post:      Point{X: -t.translate.X, Y: -t.translate.Y},
	}
}

// Matrix returns the equivalent affine matrix, e.g. for an SVG
// transform attribute.
func (t Transform) Matrix() Matrix {
	return TranslateMatrix(t.post.X, t.post.Y).
		Multiply(ScaleMatrix(t.scale.X, t.scale.Y)).
		Multiply(TranslateMatrix(t.translate.X, t.translate.Y))
}

// IsIdentity reports whether the transform leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.translate == Point{} && t.post == Point{} && t.scale == Point{X: 1, Y: 1}
}
