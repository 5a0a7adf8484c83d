package des

import "container/heap"

// heapNode wraps an Event with heap-internal bookkeeping. cancelled nodes
// are skipped lazily at pop time rather than removed eagerly, avoiding an
// O(n) search on Cancel for the common case of cancelling a near-term
// wakeup that hasn't been popped yet.
type heapNode struct {
	event     Event
	handle    EventHandle
	cancelled bool
	index     int // position in the backing slice, maintained by container/heap
}

type nodeHeap []*heapNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].event.less(h[j].event) }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*heapNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return last
}

// heapQueue is the binary-heap EventQueue backend.
type heapQueue struct {
	nodes   nodeHeap
	byHandle map[EventHandle]*heapNode
	nextID  uint64
	alive   int
}

func newHeapQueue() *heapQueue {
	return &heapQueue{
		nodes:    nodeHeap{},
		byHandle: make(map[EventHandle]*heapNode),
	}
}

func (q *heapQueue) Push(e Event) EventHandle {
	q.nextID++
	h := EventHandle(q.nextID)
	n := &heapNode{event: e, handle: h}
	heap.Push(&q.nodes, n)
	q.byHandle[h] = n
	q.alive++
	return h
}

func (q *heapQueue) PopMin() (Event, bool) {
	for q.nodes.Len() > 0 {
		n := heap.Pop(&q.nodes).(*heapNode)
		delete(q.byHandle, n.handle)
		if n.cancelled {
			continue
		}
		q.alive--
		return n.event, true
	}
	return Event{}, false
}

func (q *heapQueue) Cancel(h EventHandle) bool {
	n, ok := q.byHandle[h]
	if !ok || n.cancelled {
		return false
	}
	n.cancelled = true
	delete(q.byHandle, h)
	q.alive--
	return true
}

func (q *heapQueue) PeekMinTime() (SimTime, bool) {
	for q.nodes.Len() > 0 {
		n := q.nodes[0]
		if !n.cancelled {
			return n.event.Time, true
		}
		// Drop cancelled head lazily so PeekMinTime stays accurate without
		// mutating pop order for anything still live.
		heap.Pop(&q.nodes)
		delete(q.byHandle, n.handle)
	}
	return 0, false
}

func (q *heapQueue) Len() int      { return q.alive }
func (q *heapQueue) IsEmpty() bool { return q.alive == 0 }
