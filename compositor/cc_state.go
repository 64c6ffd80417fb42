// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "github.com/onepiec1/fuchsia/driver"

type ccPhase int

const (
	ccIdle ccPhase = iota
	ccDirty
	ccAppliedDirect
	ccAppliedGPU
)

// ColorConversionStateMachine tracks whether a color-conversion
// matrix must be (re)applied to the display, and whether a GPU
// fallback frame must first neutralize a CC matrix left installed by
// a previous direct-scanout frame.
type ColorConversionStateMachine struct {
	phase ccPhase
	data  driver.CCData
}

// Set stages cc for application; moves the machine to Dirty.
func (m *ColorConversionStateMachine) Set(cc driver.CCData) {
	m.phase = ccDirty
	m.data = cc
}

// DataToApply returns the staged CC data, if any is pending.
func (m *ColorConversionStateMachine) DataToApply() (driver.CCData, bool) {
	if m.phase != ccDirty {
		return driver.CCData{}, false
	}
	return m.data, true
}

// MarkAppliedDirect records that a direct-scanout frame consumed the
// staged CC data and applied it to the display's hardware path. A
// no-op unless a CC was actually staged: called after every successful
// direct-scanout frame regardless of whether that frame touched CC.
func (m *ColorConversionStateMachine) MarkAppliedDirect() {
	if m.phase == ccDirty {
		m.phase = ccAppliedDirect
	}
}

// GPURequiresDisplayClearing reports whether a GPU-fallback frame must
// first push an identity CC to the display: true iff the last direct
// apply left a non-identity matrix installed on the hardware path (the
// GPU path applies CC itself, in its shader).
func (m *ColorConversionStateMachine) GPURequiresDisplayClearing() bool {
	return m.phase == ccAppliedDirect && !m.data.IsIdentity()
}

// MarkDisplayCleared records that the identity CC has been pushed to
// the display ahead of a GPU-composited frame.
func (m *ColorConversionStateMachine) MarkDisplayCleared() {
	m.phase = ccAppliedGPU
}

// Current returns the CC data currently in effect, whenever the
// machine is not Idle — regardless of whether it has already been
// applied. A GPU-fallback frame must keep re-applying a non-identity
// CC in its shader for as long as it is in effect, not only on the
// single frame that first consumed it via DataToApply.
func (m *ColorConversionStateMachine) Current() (driver.CCData, bool) {
	if m.phase == ccIdle {
		return driver.CCData{}, false
	}
	return m.data, true
}

// MarkAppliedGPU records that a GPU-fallback frame consumed the
// staged CC data and applied it in the renderer's own shader, rather
// than on the display's hardware path.
func (m *ColorConversionStateMachine) MarkAppliedGPU() {
	m.phase = ccAppliedGPU
}
