package prioritize

import (
	"cmp"
	"slices"

	"github.com/matzehuels/datalabels/pkg/label"
)

// budgetFactor is how many candidates are prioritised per label slot.
const budgetFactor = 2

// ordering accumulates a permutation without repeats.
type ordering struct {
	selected []bool
	order    []int
}

func newOrdering(n int) *ordering {
	return &ordering{selected: make([]bool, n), order: make([]int, 0, n)}
}

func (o *ordering) add(i int) {
	if i < 0 || o.selected[i] {
		return
	}
	o.selected[i] = true
	o.order = append(o.order, i)
}

// Indices returns a permutation of [0, len(values)) in priority order for a
// chart that can show about maxLabels labels. Callers normally keep the
// first min(2*maxLabels, len(values)) entries.
//
// The first entries are always the first, last, global-maximum and
// global-minimum indices (deduplicated, missing ones skipped). Weighted
// extrema follow in descending weight, then bisection filler, then the rest
// in ascending order. The result is deterministic.
func Indices(values []*float64, maxLabels int, axis Axis) []int {
	n := len(values)
	if n == 0 {
		return []int{}
	}

	target := Budget(n, maxLabels)
	o := newOrdering(n)

	hi, lo := globalIndices(values)
	o.add(0)
	o.add(n - 1)
	o.add(hi)
	o.add(lo)
	mandatory := len(o.order)

	if mandatory < target {
		var ranked []Extremum
		for _, e := range Extrema(values, axis) {
			if e.Weight != nil && !o.selected[e.Index] {
				ranked = append(ranked, e)
			}
		}
		slices.SortStableFunc(ranked, func(a, b Extremum) int {
			if c := cmp.Compare(*b.Weight, *a.Weight); c != 0 {
				return c
			}
			return cmp.Compare(a.Index, b.Index)
		})
		room := min(target-mandatory, len(ranked))
		for _, e := range ranked[:room] {
			o.add(e.Index)
		}
	}

	if len(o.order) < target {
		o.bisect(target)
	}

	for i := range n {
		o.add(i)
	}
	return o.order
}

// Values extracts the Value of every candidate.
func Values(cands []label.Candidate) []*float64 {
	values := make([]*float64, len(cands))
	for i, c := range cands {
		values[i] = c.Value
	}
	return values
}

// Order returns cands reordered by [Indices]. The input is not modified.
func Order(cands []label.Candidate, maxLabels int, axis Axis) []label.Candidate {
	idx := Indices(Values(cands), maxLabels, axis)
	out := make([]label.Candidate, len(idx))
	for i, j := range idx {
		out[i] = cands[j]
	}
	return out
}

// Budget is the number of ordered candidates worth attempting for n points
// and maxLabels slots.
// Large maxLabels saturate at n instead of overflowing.
func Budget(n, maxLabels int) int {
	switch {
	case maxLabels <= 0:
		return 0
	case maxLabels >= (n+1)/budgetFactor:
		return n
	}
	return budgetFactor * maxLabels
}
