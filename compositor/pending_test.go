// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "testing"

func TestPendingApplyFIFODrain(t *testing.T) {
	var q pendingApplyQueue
	q.enqueue(1, 100)
	q.enqueue(2, 101)
	q.enqueue(3, 102)

	var drained []uint64
	ok := q.drain(2, func(frameNo uint64) { drained = append(drained, frameNo) })
	if !ok {
		t.Fatal("drain: expected match for stamp 2")
	}
	if len(drained) != 2 || drained[0] != 100 || drained[1] != 101 {
		t.Fatalf("drained:\nhave %v\nwant [100 101]", drained)
	}
	if len(q.entries) != 1 || q.entries[0].stamp != 3 {
		t.Fatalf("remaining queue:\nhave %v\nwant [stamp 3]", q.entries)
	}
}

func TestPendingApplyForeignStampIgnored(t *testing.T) {
	var q pendingApplyQueue
	q.enqueue(1, 100)

	called := false
	ok := q.drain(99, func(uint64) { called = true })
	if ok {
		t.Fatal("drain: expected no match for foreign stamp")
	}
	if called {
		t.Fatal("drain: callback must not fire for foreign stamp")
	}
	if len(q.entries) != 1 {
		t.Fatalf("queue must be unchanged:\nhave %v", q.entries)
	}
}
