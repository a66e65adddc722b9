package prioritize

// Scale maps a data value to a pixel coordinate on the value axis.
type Scale interface {
	Apply(v float64) float64
}

// ScaleFunc adapts a plain function to [Scale].
type ScaleFunc func(float64) float64

// Apply calls f(v).
func (f ScaleFunc) Apply(v float64) float64 { return f(v) }

// Linear maps Domain onto Range linearly. Range may be inverted, as is
// usual for a vertical axis where larger values sit higher on screen.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// Apply maps v from the domain into the range. A zero-width domain maps
// everything to the start of the range.
func (l Linear) Apply(v float64) float64 {
	d := l.Domain[1] - l.Domain[0]
	if d == 0 {
		return l.Range[0]
	}
	return l.Range[0] + (v-l.Domain[0])/d*(l.Range[1]-l.Range[0])
}

// Axis carries what the prioritizer needs to know about the rendered chart.
type Axis struct {
	// Scale maps values to pixels. Nil means identity.
	Scale Scale

	// Width is the viewport width in pixels, used to size the smoothing
	// window. Zero disables smoothing.
	Width float64
}

func (a Axis) apply(v float64) float64 {
	if a.Scale == nil {
		return v
	}
	return a.Scale.Apply(v)
}
