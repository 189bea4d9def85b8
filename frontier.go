package pathfinder

import "container/heap"

// frontier is the open list: a min-heap of steps ordered by totalCost plus a
// membership table keyed by node identity, so at most one step per distinct
// node is ever queued. Equal-cost steps order by insertion sequence (FIFO),
// which keeps pop order reproducible for a given neighbor enumeration order.
type frontier[N Node[N]] struct {
	steps   stepHeap[N]
	byNode  map[N]*step[N]
	nextSeq uint64
}

func newFrontier[N Node[N]]() *frontier[N] {
	return &frontier[N]{byNode: make(map[N]*step[N])}
}

func (f *frontier[N]) len() int {
	return len(f.steps)
}

// lookup returns the queued step for a node, if any.
func (f *frontier[N]) lookup(node N) (*step[N], bool) {
	s, ok := f.byNode[node]
	return s, ok
}

// push inserts a step for a node not currently queued.
func (f *frontier[N]) push(s *step[N]) {
	s.seq = f.nextSeq
	f.nextSeq++
	heap.Push(&f.steps, s)
	f.byNode[s.node] = s
}

// popMin removes and returns the cheapest queued step.
func (f *frontier[N]) popMin() *step[N] {
	s := heap.Pop(&f.steps).(*step[N])
	delete(f.byNode, s.node)
	return s
}

// relax reroutes a queued step through a cheaper predecessor and restores heap
// order. goalCost stays as created: it depends only on the step's node.
func (f *frontier[N]) relax(s, via *step[N], stepCost float64) {
	s.previous = via
	s.stepCost = stepCost
	heap.Fix(&f.steps, s.index)
}

// stepHeap implements heap.Interface over steps.
type stepHeap[N Node[N]] []*step[N]

func (h stepHeap[N]) Len() int { return len(h) }

func (h stepHeap[N]) Less(i, j int) bool {
	fi, fj := h[i].totalCost(), h[j].totalCost()
	if fi != fj {
		return fi < fj
	}
	return h[i].seq < h[j].seq
}

func (h stepHeap[N]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *stepHeap[N]) Push(x interface{}) {
	s := x.(*step[N])
	s.index = len(*h)
	*h = append(*h, s)
}

func (h *stepHeap[N]) Pop() interface{} {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	s.index = -1
	*h = old[:n-1]
	return s
}
