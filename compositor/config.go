// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "github.com/onepiec1/fuchsia/linear"

// Config holds the orchestrator's explicit, non-ambient settings.
// Values that used to be global constants in the original design are
// fields here instead, so a process can run more than one compositor
// with different policies.
type Config struct {
	// DisableDirectScanout forces every frame through GPU fallback,
	// regardless of what the planner decides.
	DisableDirectScanout bool

	// DebugMultiplyColor, when non-zero, tints every GPU-composited
	// frame with the given RGB, so debug builds can visually tell direct
	// scanout and GPU fallback apart. Applied via the renderer's color
	// conversion; has no effect on direct-scanout frames.
	DebugMultiplyColor linear.V4

	// DebugReadableRenderTargets requests CPU-readable back-buffers when
	// negotiating render-target constraints, so a debug build can read
	// back composited frames. Ordinary operation asks for no particular
	// usage.
	DebugReadableRenderTargets bool
}
