package core

import "container/heap"

// priceHeap is a binary heap of *Level ordered by price, side-aware: a buy
// side book sorts descending (max-heap on top), a sell side book sorts
// ascending (min-heap on top). It never removes an entry eagerly when a
// level empties out mid-match — only the top is ever inspected or popped,
// per the lazy-delete policy enforced by the owning SideBook.
type priceHeap struct {
	levels []*Level
	side   Side
}

func newPriceHeap(side Side, capacityHint int) *priceHeap {
	return &priceHeap{levels: make([]*Level, 0, capacityHint), side: side}
}

func (h *priceHeap) Len() int { return len(h.levels) }

func (h *priceHeap) Less(i, j int) bool {
	pi, pj := h.levels[i].price, h.levels[j].price
	if h.side == Buy {
		return pi > pj // max-heap
	}
	return pi < pj // min-heap
}

func (h *priceHeap) Swap(i, j int) {
	h.levels[i], h.levels[j] = h.levels[j], h.levels[i]
}

func (h *priceHeap) Push(x any) {
	h.levels = append(h.levels, x.(*Level))
}

func (h *priceHeap) Pop() any {
	n := len(h.levels)
	l := h.levels[n-1]
	h.levels[n-1] = nil
	h.levels = h.levels[:n-1]
	return l
}

func (h *priceHeap) top() *Level {
	if len(h.levels) == 0 {
		return nil
	}
	return h.levels[0]
}

func (h *priceHeap) pushLevel(l *Level) {
	heap.Push(h, l)
}

func (h *priceHeap) popTop() {
	if len(h.levels) == 0 {
		panic("core: popTop called on an empty price heap")
	}
	heap.Pop(h)
}

var _ heap.Interface = (*priceHeap)(nil)
