package containers

import "container/heap"

// PriorityQueue orders elements with a caller supplied comparison. Elements
// that compare equal come out in insertion order.
type PriorityQueue[T any] struct {
	items *pqItems[T]
	seq   uint64
}

type pqEntry[T any] struct {
	value T
	seq   uint64
}

type pqItems[T any] struct {
	entries []pqEntry[T]
	less    func(a, b T) bool
}

func (p *pqItems[T]) Len() int { return len(p.entries) }

func (p *pqItems[T]) Less(i, j int) bool {
	a, b := p.entries[i], p.entries[j]
	if p.less(a.value, b.value) {
		return true
	}
	if p.less(b.value, a.value) {
		return false
	}
	return a.seq < b.seq
}

func (p *pqItems[T]) Swap(i, j int) { p.entries[i], p.entries[j] = p.entries[j], p.entries[i] }

func (p *pqItems[T]) Push(x any) { p.entries = append(p.entries, x.(pqEntry[T])) }

func (p *pqItems[T]) Pop() any {
	n := len(p.entries)
	e := p.entries[n-1]
	p.entries[n-1] = pqEntry[T]{}
	p.entries = p.entries[:n-1]
	return e
}

// NewPriorityQueue creates an empty queue; less reports whether a must be
// dequeued before b.
func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{items: &pqItems[T]{less: less}}
}

// Push inserts a value.
func (pq *PriorityQueue[T]) Push(value T) {
	pq.seq++
	heap.Push(pq.items, pqEntry[T]{value: value, seq: pq.seq})
}

// Pop removes and returns the first value. ok is false when the queue is empty.
func (pq *PriorityQueue[T]) Pop() (value T, ok bool) {
	if pq.items.Len() == 0 {
		return value, false
	}
	e := heap.Pop(pq.items).(pqEntry[T])
	return e.value, true
}

// Peek returns the first value without removing it.
func (pq *PriorityQueue[T]) Peek() (value T, ok bool) {
	if pq.items.Len() == 0 {
		return value, false
	}
	return pq.items.entries[0].value, true
}

// Drain empties the queue and returns the removed values in no particular order.
func (pq *PriorityQueue[T]) Drain() []T {
	out := make([]T, 0, len(pq.items.entries))
	for _, e := range pq.items.entries {
		out = append(out, e.value)
	}
	pq.items.entries = nil
	return out
}

// Len returns the number of queued values.
func (pq *PriorityQueue[T]) Len() int {
	return pq.items.Len()
}
