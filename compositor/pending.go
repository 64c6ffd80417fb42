// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "github.com/onepiec1/fuchsia/driver"

type pendingEntry struct {
	stamp   driver.ConfigStamp
	frameNo uint64
}

// pendingApplyQueue is the FIFO of applied-but-not-yet-retired
// configurations, strictly correlated with the stamps ApplyConfig
// returns. Vsync draining removes entries from the head up to and
// including the first match.
type pendingApplyQueue struct {
	entries []pendingEntry
}

func (q *pendingApplyQueue) enqueue(stamp driver.ConfigStamp, frameNo uint64) {
	q.entries = append(q.entries, pendingEntry{stamp, frameNo})
}

// drain removes every entry from the head of the queue up to and
// including the first one matching stamp, calling fn for each. It
// reports whether a match was found; if not, the queue is left
// untouched (the stamp belongs to another client).
func (q *pendingApplyQueue) drain(stamp driver.ConfigStamp, fn func(frameNo uint64)) bool {
	idx := -1
	for i, e := range q.entries {
		if e.stamp == stamp {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	for _, e := range q.entries[:idx+1] {
		fn(e.frameNo)
	}
	q.entries = q.entries[idx+1:]
	return true
}
