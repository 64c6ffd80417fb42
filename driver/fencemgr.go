// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// PresentCallback is invoked exactly once per successful frame, upon
// vsync retirement. It is never invoked for a frame that failed both
// the direct and GPU-fallback paths.
type PresentCallback func()

// ReleaseFenceManager is pure bookkeeping: it correlates frame numbers
// with vsync stamps and fires the release fences (and the client's
// present callback) once a frame is retired.
type ReleaseFenceManager interface {
	OnDirectScanoutFrame(frameNo uint64, releaseFences []FenceHandle, callback PresentCallback)
	OnGpuCompositedFrame(frameNo uint64, renderFinishedFence FenceHandle, releaseFences []FenceHandle, callback PresentCallback)
	OnVsync(frameNo uint64, timestamp int64)
}
