package prioritize

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/datalabels/pkg/label"
)

// wide keeps the smoothing window at 1 for short series.
var wide = Axis{Width: 10000}

func vals(xs ...float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		out[i] = label.Float(x)
	}
	return out
}

// bumpyRamp is 0..100 with four small wiggles at 50..53.
func bumpyRamp() []*float64 {
	xs := make([]float64, 101)
	for i := range xs {
		xs[i] = float64(i)
	}
	xs[50], xs[51], xs[52], xs[53] = 50.5, 50.4, 50.6, 50.5
	return vals(xs...)
}

func isPermutation(idx []int, n int) bool {
	if len(idx) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range idx {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func TestIndices(t *testing.T) {
	tests := []struct {
		name      string
		values    []*float64
		maxLabels int
		axis      Axis
		want      []int
	}{
		{"empty", nil, 3, wide, []int{}},
		{"single", vals(4), 3, wide, []int{0}},
		{"flat budget 1", vals(5, 5, 5, 5, 5), 1, wide, []int{0, 4, 1, 2, 3}},
		{"flat bisects", vals(5, 5, 5, 5, 5), 2, wide, []int{0, 4, 2, 1, 3}},
		{"missing values", []*float64{nil, label.Float(3), nil, label.Float(1), label.Float(7), nil}, 1, wide, []int{0, 5, 4, 3, 1, 2}},
		{"zigzag", vals(0, 10, 0, 5, 0, 1, 0), 2, wide, []int{0, 6, 1, 2, 3, 4, 5}},
		{
			"smoothed",
			vals(0, 1, 3, 2, 6, 5, 4, 9, 8, 0, 1, 2, 7, 3, 3, 0, 5, 4, 4, 2),
			4,
			Axis{Width: 200},
			[]int{0, 19, 7, 9, 12, 15, 16, 4, 1, 2, 3, 5, 6, 8, 10, 11, 13, 14, 17, 18},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Indices(tt.values, tt.maxLabels, tt.axis)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Indices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndicesBumpyRamp(t *testing.T) {
	got := Indices(bumpyRamp(), 3, wide)
	want := []int{0, 100, 50, 53, 25, 77}
	if !slices.Equal(got[:6], want) {
		t.Fatalf("first 6 = %v, want %v", got[:6], want)
	}
	if !isPermutation(got, 101) {
		t.Fatal("not a permutation")
	}
	// 51 and 52 are too light to be ranked and fall back to index order.
	for _, i := range got[:6] {
		if i == 51 || i == 52 {
			t.Errorf("light extremum %d ranked early", i)
		}
	}
}

func TestIndicesProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 3, 10, 57, 400} {
		for _, k := range []int{0, 1, 5, 40, 1000} {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				values := make([]*float64, n)
				for i := range values {
					if rng.Intn(10) == 0 {
						continue
					}
					values[i] = label.Float(rng.NormFloat64() * 100)
				}
				axis := Axis{Width: 300, Scale: Linear{Domain: [2]float64{-300, 300}, Range: [2]float64{500, 0}}}

				got := Indices(values, k, axis)
				if !isPermutation(got, n) {
					t.Fatalf("not a permutation: %v", got)
				}
				if again := Indices(values, k, axis); !slices.Equal(got, again) {
					t.Fatal("not deterministic")
				}

				hi, lo := globalIndices(values)
				head := got[:min(4, n)]
				for _, m := range []int{0, n - 1, hi, lo} {
					if m >= 0 && !slices.Contains(head, m) {
						t.Errorf("mandatory index %d not in head %v", m, head)
					}
				}
			})
		}
	}
}

func TestExtrema(t *testing.T) {
	got := Extrema(bumpyRamp(), wide)

	type want struct {
		index  int
		kind   Kind
		weight float64 // 0 means nil
	}
	wants := []want{
		{0, Minimum, 0.5025},
		{50, Maximum, 0.254},
		{51, Minimum, 0},
		{52, Maximum, 0},
		{53, Minimum, 0.244},
		{100, Maximum, 0.4825},
	}
	if len(got) != len(wants) {
		t.Fatalf("got %d extrema, want %d: %+v", len(got), len(wants), got)
	}
	for i, w := range wants {
		e := got[i]
		if e.Index != w.index || e.Kind != w.kind {
			t.Errorf("[%d] = %d %v, want %d %v", i, e.Index, e.Kind, w.index, w.kind)
		}
		switch {
		case w.weight == 0 && e.Weight != nil:
			t.Errorf("[%d] weight = %v, want nil", i, *e.Weight)
		case w.weight != 0 && e.Weight == nil:
			t.Errorf("[%d] weight = nil, want %v", i, w.weight)
		case w.weight != 0 && math.Abs(*e.Weight-w.weight) > 1e-9:
			t.Errorf("[%d] weight = %v, want %v", i, *e.Weight, w.weight)
		}
	}
}

func TestExtremaRelocation(t *testing.T) {
	values := vals(0, 1, 3, 2, 6, 5, 4, 9, 8, 0, 1, 2, 7, 3, 3, 0, 5, 4, 4, 2)
	got := Extrema(values, Axis{Width: 200})

	var idx []int
	for _, e := range got {
		idx = append(idx, e.Index)
		if e.Value != *values[e.Index] {
			t.Errorf("extremum %d carries %v, raw value is %v", e.Index, e.Value, *values[e.Index])
		}
	}
	if want := []int{0, 7, 9, 12, 15, 16, 19}; !slices.Equal(idx, want) {
		t.Errorf("indices = %v, want %v", idx, want)
	}
}

func TestExtremaDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []*float64
	}{
		{"empty", nil},
		{"single", vals(1)},
		{"all missing", []*float64{nil, nil, nil}},
		{"flat", vals(2, 2, 2, 2)},
		{"isolated", []*float64{nil, label.Float(1), nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extrema(tt.values, wide); len(got) != 0 {
				t.Errorf("Extrema() = %+v, want none", got)
			}
		})
	}
}

func TestWindowSize(t *testing.T) {
	tests := []struct {
		n     int
		width float64
		want  int
	}{
		{0, 100, 1},
		{10, 0, 1},
		{10, -5, 1},
		{25, 1000, 1},
		{50, 1000, 3},
		{100, 1000, 5},
		{1000, 800, 51},
	}
	for _, tt := range tests {
		if got := WindowSize(tt.n, tt.width); got != tt.want {
			t.Errorf("WindowSize(%d, %v) = %d, want %d", tt.n, tt.width, got, tt.want)
		}
	}
}

func TestSmooth(t *testing.T) {
	e := math.Exp(-2)

	t.Run("window 1 is identity", func(t *testing.T) {
		in := vals(1, 5, 2)
		got := Smooth(in, 1)
		for i := range in {
			if *got[i] != *in[i] {
				t.Errorf("[%d] = %v, want %v", i, *got[i], *in[i])
			}
		}
	})

	t.Run("window 3", func(t *testing.T) {
		got := Smooth(vals(0, 10, 0), 3)
		want := []float64{10 * e / (1 + e), 10 / (1 + 2*e), 10 * e / (1 + e)}
		for i := range want {
			if math.Abs(*got[i]-want[i]) > 1e-12 {
				t.Errorf("[%d] = %v, want %v", i, *got[i], want[i])
			}
		}
	})

	t.Run("missing values", func(t *testing.T) {
		got := Smooth([]*float64{nil, label.Float(4), label.Float(8)}, 3)
		if got[0] != nil {
			t.Errorf("[0] = %v, want nil", *got[0])
		}
		if want := (4 + 8*e) / (1 + e); math.Abs(*got[1]-want) > 1e-12 {
			t.Errorf("[1] = %v, want %v", *got[1], want)
		}
	})

	t.Run("even window widened", func(t *testing.T) {
		a, b := Smooth(vals(0, 10, 0), 2), Smooth(vals(0, 10, 0), 3)
		if *a[1] != *b[1] {
			t.Errorf("window 2 = %v, window 3 = %v", *a[1], *b[1])
		}
	})
}

func TestLinear(t *testing.T) {
	l := Linear{Domain: [2]float64{0, 10}, Range: [2]float64{100, 0}}
	if got := l.Apply(2.5); got != 75 {
		t.Errorf("Apply(2.5) = %v, want 75", got)
	}
	if got := (Linear{Range: [2]float64{3, 9}}).Apply(5); got != 3 {
		t.Errorf("zero domain Apply = %v, want 3", got)
	}
}

func TestOrder(t *testing.T) {
	cands := make([]label.Candidate, 5)
	for i := range cands {
		cands[i] = label.Candidate{PointIndex: i, Value: label.Float(5)}
	}
	got := Order(cands, 2, wide)
	var idx []int
	for _, c := range got {
		idx = append(idx, c.PointIndex)
	}
	if want := []int{0, 4, 2, 1, 3}; !slices.Equal(idx, want) {
		t.Errorf("Order() = %v, want %v", idx, want)
	}
	if cands[1].PointIndex != 1 {
		t.Error("input modified")
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		n, maxLabels, want int
	}{
		{100, 3, 6},
		{4, 3, 4},
		{3, 2, 3},
		{3, 1, 2},
		{4, -1, 0},
		{0, 5, 0},
		{3, math.MaxInt/2 + 1, 3},
		{100, math.MaxInt, 100},
	}
	for _, tt := range tests {
		if got := Budget(tt.n, tt.maxLabels); got != tt.want {
			t.Errorf("Budget(%d, %d) = %d, want %d", tt.n, tt.maxLabels, got, tt.want)
		}
	}
}

func TestIndicesHugeBudget(t *testing.T) {
	values := vals(3, 1, 4, 1, 5, 9, 2, 6)
	got := Indices(values, math.MaxInt, wide)
	if len(got) != len(values) {
		t.Fatalf("len = %d, want %d", len(got), len(values))
	}
	sorted := slices.Sorted(slices.Values(got))
	for i, v := range sorted {
		if v != i {
			t.Fatalf("not a permutation: %v", got)
		}
	}
}

func ExampleIndices() {
	values := []*float64{
		label.Float(5), label.Float(5), label.Float(5), label.Float(5), label.Float(5),
	}
	fmt.Println(Indices(values, 2, Axis{}))
	// Output: [0 4 2 1 3]
}
