package prioritize

import "container/heap"

// span is an inclusive run of indices with no label yet.
type span struct{ start, end int }

func (s span) len() int { return s.end - s.start + 1 }

// spanHeap pops the longest run first, the leftmost on ties.
type spanHeap []span

func (h spanHeap) Len() int { return len(h) }
func (h spanHeap) Less(i, j int) bool {
	if h[i].len() != h[j].len() {
		return h[i].len() > h[j].len()
	}
	return h[i].start < h[j].start
}
func (h spanHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *spanHeap) Push(x any)   { *h = append(*h, x.(span)) }
func (h *spanHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// bisect labels the midpoint of the longest unlabelled run until the order
// reaches target entries or no run is left.
func (o *ordering) bisect(target int) {
	h := &spanHeap{}
	start := -1
	for i, sel := range o.selected {
		switch {
		case !sel && start < 0:
			start = i
		case sel && start >= 0:
			*h = append(*h, span{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		*h = append(*h, span{start, len(o.selected) - 1})
	}
	heap.Init(h)

	for h.Len() > 0 && len(o.order) < target {
		s := heap.Pop(h).(span)
		mid := s.start + s.len()/2
		o.add(mid)
		if mid > s.start {
			heap.Push(h, span{s.start, mid - 1})
		}
		if mid < s.end {
			heap.Push(h, span{mid + 1, s.end})
		}
	}
}
