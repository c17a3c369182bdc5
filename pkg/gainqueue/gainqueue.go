// Package gainqueue implements the addressable max-priority queue the
// refiner uses to pick its next move: entries are keyed by
// (vertex, target block) and ordered by gain, with O(log n) update and
// removal by key so the refiner can keep gains consistent after every
// accepted move.
package gainqueue

// Move identifies a candidate relocation of a vertex to a target block.
type Move struct {
	Vertex int
	Block  int
}

type entry struct {
	move Move
	gain int64
}

// Queue is a binary-heap-backed max-priority queue over Move, with an
// index map for O(log n) Update/Remove/Contains by key. The heap
// itself is a plain array with manual bubble up/down (no
// container/heap): the queue needs addressability that the stdlib
// heap.Interface does not give you for free, so tracking each entry's
// array position directly is simpler than wrapping heap.Interface.
type Queue struct {
	items []entry
	index map[Move]int
}

// New creates an empty queue. capacityHint sizes the backing array to
// avoid reallocation for the common case (one entry per border vertex
// per legal target block).
func New(capacityHint int) *Queue {
	return &Queue{
		items: make([]entry, 0, capacityHint),
		index: make(map[Move]int, capacityHint),
	}
}

// Size returns the number of entries currently queued.
func (q *Queue) Size() int { return len(q.items) }

// Empty reports whether the queue has no entries.
func (q *Queue) Empty() bool { return len(q.items) == 0 }

// Contains reports whether (v, p) is currently queued.
func (q *Queue) Contains(v, p int) bool {
	_, ok := q.index[Move{v, p}]
	return ok
}

// Gain returns the currently stored gain for (v, p), and whether it is queued.
func (q *Queue) Gain(v, p int) (int64, bool) {
	i, ok := q.index[Move{v, p}]
	if !ok {
		return 0, false
	}
	return q.items[i].gain, true
}

// Entries returns every currently queued (vertex, block) key, in no
// particular order. Intended for consistency checks that need to walk
// the whole queue rather than probe a single key.
func (q *Queue) Entries() []Move {
	moves := make([]Move, len(q.items))
	for i, e := range q.items {
		moves[i] = e.move
	}
	return moves
}

// Insert adds (v, p) with gain g. It is a caller error to insert a key
// that is already present; use Update instead.
func (q *Queue) Insert(v, p int, g int64) {
	m := Move{v, p}
	if _, exists := q.index[m]; exists {
		panic("gainqueue: Insert called on a key already present, use Update")
	}
	q.items = append(q.items, entry{move: m, gain: g})
	i := len(q.items) - 1
	q.index[m] = i
	q.bubbleUp(i)
}

// Update changes the gain of (v, p) by delta, re-heapifying it in
// place. If the key is not present, it is inserted with gain delta.
func (q *Queue) Update(v, p int, delta int64) {
	m := Move{v, p}
	i, ok := q.index[m]
	if !ok {
		q.Insert(v, p, delta)
		return
	}
	old := q.items[i].gain
	q.items[i].gain = old + delta
	if q.items[i].gain > old {
		q.bubbleUp(i)
	} else if q.items[i].gain < old {
		q.bubbleDown(i)
	}
}

// Remove deletes (v, p) if present; a no-op otherwise.
func (q *Queue) Remove(v, p int) {
	m := Move{v, p}
	i, ok := q.index[m]
	if !ok {
		return
	}
	last := len(q.items) - 1
	q.swap(i, last)
	q.items = q.items[:last]
	delete(q.index, m)
	if i < len(q.items) {
		q.bubbleUp(i)
		q.bubbleDown(i)
	}
}

// Top returns the highest-gain entry without removing it.
func (q *Queue) Top() (v, p int, gain int64, ok bool) {
	if len(q.items) == 0 {
		return 0, 0, 0, false
	}
	top := q.items[0]
	return top.move.Vertex, top.move.Block, top.gain, true
}

// Pop removes and returns the highest-gain entry.
func (q *Queue) Pop() (v, p int, gain int64, ok bool) {
	v, p, gain, ok = q.Top()
	if !ok {
		return
	}
	q.Remove(v, p)
	return
}

// less implements the deterministic tie-break required by spec §4.C:
// higher gain wins; ties broken by larger vertex ID, then larger block ID.
func less(a, b entry) bool {
	if a.gain != b.gain {
		return a.gain < b.gain
	}
	if a.move.Vertex != b.move.Vertex {
		return a.move.Vertex < b.move.Vertex
	}
	return a.move.Block < b.move.Block
}

func (q *Queue) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.index[q.items[i].move] = i
	q.index[q.items[j].move] = j
}

func (q *Queue) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(q.items[parent], q.items[i]) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *Queue) bubbleDown(i int) {
	n := len(q.items)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && less(q.items[largest], q.items[left]) {
			largest = left
		}
		if right < n && less(q.items[largest], q.items[right]) {
			largest = right
		}
		if largest == i {
			break
		}
		q.swap(i, largest)
		i = largest
	}
}
