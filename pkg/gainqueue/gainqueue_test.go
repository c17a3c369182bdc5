package gainqueue

import "testing"

func TestTopReturnsMaxGain(t *testing.T) {
	q := New(4)
	q.Insert(1, 0, 5)
	q.Insert(2, 0, 9)
	q.Insert(3, 0, 1)

	v, p, g, ok := q.Top()
	if !ok || v != 2 || p != 0 || g != 9 {
		t.Fatalf("expected top (2,0,9), got (%d,%d,%d,%v)", v, p, g, ok)
	}
}

func TestTieBreakLargerVertexThenLargerBlock(t *testing.T) {
	q := New(4)
	q.Insert(1, 1, 5)
	q.Insert(3, 0, 5)
	q.Insert(2, 0, 5)

	v, p, g, ok := q.Top()
	if !ok || v != 3 || p != 0 || g != 5 {
		t.Fatalf("expected tie-break winner (3,0,5), got (%d,%d,%d,%v)", v, p, g, ok)
	}
}

func TestUpdateReheapifies(t *testing.T) {
	q := New(4)
	q.Insert(1, 0, 1)
	q.Insert(2, 0, 2)
	q.Insert(3, 0, 3)

	q.Update(1, 0, 10) // gain becomes 11, should now be on top

	v, _, g, ok := q.Top()
	if !ok || v != 1 || g != 11 {
		t.Fatalf("expected (1,_,11) on top after update, got (%d,_,%d,%v)", v, g, ok)
	}

	q.Update(1, 0, -20) // gain becomes -9, should drop to bottom
	v, _, g, ok = q.Top()
	if !ok || v != 3 || g != 3 {
		t.Fatalf("expected (3,_,3) on top after demoting update, got (%d,_,%d,%v)", v, g, ok)
	}
}

func TestRemoveAndContains(t *testing.T) {
	q := New(4)
	q.Insert(1, 0, 5)
	q.Insert(2, 0, 9)

	if !q.Contains(1, 0) {
		t.Fatalf("expected (1,0) to be present")
	}
	q.Remove(1, 0)
	if q.Contains(1, 0) {
		t.Fatalf("expected (1,0) to be removed")
	}
	if q.Size() != 1 {
		t.Fatalf("expected size 1 after remove, got %d", q.Size())
	}
}

func TestPopDrainsInGainOrder(t *testing.T) {
	q := New(4)
	gains := map[[2]int]int64{{1, 0}: 3, {2, 0}: 7, {3, 0}: 1, {4, 0}: 5}
	for k, g := range gains {
		q.Insert(k[0], k[1], g)
	}

	var order []int64
	for !q.Empty() {
		_, _, g, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop reported not ok while queue reported non-empty")
		}
		order = append(order, g)
	}

	want := []int64{7, 5, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %d pops, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected pop order %v, got %v", want, order)
		}
	}
}

func TestEmptyQueue(t *testing.T) {
	q := New(0)
	if !q.Empty() {
		t.Fatalf("new queue should be empty")
	}
	if _, _, _, ok := q.Top(); ok {
		t.Fatalf("Top on empty queue should report not ok")
	}
}
