package des

import "sort"

// calEntry is one slot in a bucket's per-bucket sorted list.
type calEntry struct {
	event     Event
	handle    EventHandle
	cancelled bool
}

// calendarQueue is a calendar-queue EventQueue backend: a bucket array of
// width B hashed by floor(time/width) mod B, each bucket holding a small
// sorted list. Amortized O(1) push/pop when the queue is dominated by
// near-term events relative to the horizon; B and width auto-tune on
// resize based on occupancy.
type calendarQueue struct {
	buckets   [][]*calEntry
	width     SimTime
	current   int     // index of the bucket the sweep pointer currently owns
	baseTime  SimTime // lower bound of the time range `current` currently represents
	lap       int     // buckets advanced since the last eligible pop, for fallback detection

	byHandle map[EventHandle]*calEntry
	nextID   uint64
	alive    int

	pushesSinceResize int
}

const (
	calInitialBuckets = 16
	calInitialWidth   SimTime = 1.0
	calResizeHighFactor = 2 // resize up once alive exceeds bucketCount*this
	calResizeCheckEvery = 32
)

func newCalendarQueue() *calendarQueue {
	q := &calendarQueue{
		buckets: make([][]*calEntry, calInitialBuckets),
		width:   calInitialWidth,
	}
	q.byHandle = make(map[EventHandle]*calEntry)
	return q
}

func (q *calendarQueue) bucketIndex(t SimTime) int {
	n := int(float64(t) / float64(q.width))
	n %= len(q.buckets)
	if n < 0 {
		n += len(q.buckets)
	}
	return n
}

func (q *calendarQueue) Push(e Event) EventHandle {
	q.nextID++
	h := EventHandle(q.nextID)
	entry := &calEntry{event: e, handle: h}
	idx := q.bucketIndex(e.Time)
	b := q.buckets[idx]
	pos := sort.Search(len(b), func(i int) bool { return e.less(b[i].event) })
	b = append(b, nil)
	copy(b[pos+1:], b[pos:])
	b[pos] = entry
	q.buckets[idx] = b
	q.byHandle[h] = entry
	q.alive++
	q.pushesSinceResize++
	if q.pushesSinceResize >= calResizeCheckEvery && q.alive > len(q.buckets)*calResizeHighFactor {
		q.resize()
	}
	return h
}

func (q *calendarQueue) Cancel(h EventHandle) bool {
	entry, ok := q.byHandle[h]
	if !ok || entry.cancelled {
		return false
	}
	entry.cancelled = true
	delete(q.byHandle, h)
	q.alive--
	return true
}

// dropCancelledFront removes cancelled entries from the front of bucket idx
// so the bucket's head always reflects the next live candidate.
func (q *calendarQueue) dropCancelledFront(idx int) {
	b := q.buckets[idx]
	i := 0
	for i < len(b) && b[i].cancelled {
		i++
	}
	if i > 0 {
		q.buckets[idx] = b[i:]
	}
}

func (q *calendarQueue) PopMin() (Event, bool) {
	if q.alive == 0 {
		return Event{}, false
	}
	for lap := 0; lap < len(q.buckets); lap++ {
		q.dropCancelledFront(q.current)
		b := q.buckets[q.current]
		if len(b) > 0 && b[0].event.Time < q.baseTime+q.width {
			entry := b[0]
			q.buckets[q.current] = b[1:]
			delete(q.byHandle, entry.handle)
			q.alive--
			return entry.event, true
		}
		q.current = (q.current + 1) % len(q.buckets)
		q.baseTime += q.width
	}
	// Full lap without an eligible bucket: the queue is sparse relative to
	// the current width (all live entries sit in future wraps of their
	// bucket). Fall back to a direct scan for the true minimum and
	// resynchronize the sweep pointer onto it.
	return q.directScanPop()
}

func (q *calendarQueue) directScanPop() (Event, bool) {
	bestIdx := -1
	var best *calEntry
	for i, b := range q.buckets {
		q.dropCancelledFront(i)
		b = q.buckets[i]
		if len(b) == 0 {
			continue
		}
		if best == nil || b[0].event.less(best.event) {
			best = b[0]
			bestIdx = i
		}
	}
	if best == nil {
		return Event{}, false
	}
	q.buckets[bestIdx] = q.buckets[bestIdx][1:]
	delete(q.byHandle, best.handle)
	q.alive--
	q.current = bestIdx
	q.baseTime = SimTime(int(float64(best.event.Time)/float64(q.width))) * q.width
	return best.event, true
}

func (q *calendarQueue) PeekMinTime() (SimTime, bool) {
	bestSet := false
	var best SimTime
	for i := range q.buckets {
		q.dropCancelledFront(i)
		b := q.buckets[i]
		if len(b) == 0 {
			continue
		}
		if !bestSet || b[0].event.Time < best {
			best = b[0].event.Time
			bestSet = true
		}
	}
	return best, bestSet
}

func (q *calendarQueue) Len() int      { return q.alive }
func (q *calendarQueue) IsEmpty() bool { return q.alive == 0 }

// resize recomputes bucket count and width from the current occupancy and
// rehashes all live entries: B and w auto-tune on resize based on
// occupancy.
func (q *calendarQueue) resize() {
	var live []*calEntry
	for i, b := range q.buckets {
		q.dropCancelledFront(i)
		for _, e := range q.buckets[i] {
			if !e.cancelled {
				live = append(live, e)
			}
		}
		_ = b
	}
	sort.Slice(live, func(i, j int) bool { return live[i].event.less(live[j].event) })

	newCount := nextPow2(2 * max(len(live), 1))
	newWidth := calInitialWidth
	if len(live) > 1 {
		var sum SimTime
		for i := 1; i < len(live); i++ {
			sum += live[i].event.Time - live[i-1].event.Time
		}
		avg := sum / SimTime(len(live)-1)
		if avg > 0 {
			newWidth = avg
		}
	}

	q.buckets = make([][]*calEntry, newCount)
	q.width = newWidth
	q.pushesSinceResize = 0
	for _, e := range live {
		idx := q.bucketIndex(e.event.Time)
		q.buckets[idx] = append(q.buckets[idx], e)
	}
	for i := range q.buckets {
		sort.Slice(q.buckets[i], func(a, b int) bool { return q.buckets[i][a].event.less(q.buckets[i][b].event) })
	}
	if len(live) > 0 {
		q.current = q.bucketIndex(live[0].event.Time)
		q.baseTime = SimTime(int(float64(live[0].event.Time)/float64(q.width))) * q.width
	} else {
		q.current = 0
		q.baseTime = 0
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	if p < calInitialBuckets {
		p = calInitialBuckets
	}
	return p
}
