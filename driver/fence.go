// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "sync/atomic"

// Event is the concrete FenceHandle the core creates for every fence
// it owns. The display controller signals it asynchronously (from a
// hardware interrupt or an unspecified thread), so state is kept in
// an atomic rather than guarded by the core's own mutex.
type Event struct {
	signaled atomic.Bool
}

// NewEvent returns a fence handle, optionally pre-signaled.
func NewEvent(preSignaled bool) *Event {
	e := &Event{}
	e.signaled.Store(preSignaled)
	return e
}

func (e *Event) Signaled() bool { return e.signaled.Load() }
func (e *Event) Signal()        { e.signaled.Store(true) }
func (e *Event) Unsignal()      { e.signaled.Store(false) }
