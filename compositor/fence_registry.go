// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import (
	"github.com/onepiec1/fuchsia/driver"
	"github.com/onepiec1/fuchsia/internal/registry"
)

// FrameEventData is the wait/signal fence pair bracketing a single
// back-buffer's use: the renderer signals wait_event when drawing
// completes, and the display controller signals signal_event once the
// layer image has been replaced by another frame. The signal event is
// pre-signaled at creation, so the first use of a back-buffer behaves
// as though it had already been retired.
type FrameEventData struct {
	WaitEvent   *driver.Event
	SignalEvent *driver.Event
	WaitID      driver.EventId
	SignalID    driver.EventId
}

// ImageEventData enforces at-most-one in-flight frame per client
// image: SignalEvent is signaled by the controller once the image is
// no longer needed by the previous frame.
type ImageEventData struct {
	SignalEvent *driver.Event
	SignalID    driver.EventId
}

// FenceRegistry creates fences and registers them with the display
// controller. It is not safe for concurrent use.
type FenceRegistry struct {
	controller driver.DisplayController
	images     registry.Registry[driver.ImageId, ImageEventData]
}

func NewFenceRegistry(c driver.DisplayController) *FenceRegistry {
	return &FenceRegistry{controller: c}
}

// NewFrameEventData creates a wait/signal fence pair for one
// back-buffer slot and registers both handles with the controller.
func (f *FenceRegistry) NewFrameEventData() (FrameEventData, error) {
	wait := driver.NewEvent(false)
	signal := driver.NewEvent(true)

	waitID, err := f.controller.ImportEvent(wait)
	if err != nil {
		return FrameEventData{}, ErrControllerTransportFailed
	}
	signalID, err := f.controller.ImportEvent(signal)
	if err != nil {
		return FrameEventData{}, ErrControllerTransportFailed
	}
	return FrameEventData{WaitEvent: wait, SignalEvent: signal, WaitID: waitID, SignalID: signalID}, nil
}

// EnsureImageEvent returns the ImageEventData for id, creating and
// registering one (pre-signaled) on first use.
func (f *FenceRegistry) EnsureImageEvent(id driver.ImageId) (*ImageEventData, error) {
	if e, ok := f.images.Get(id); ok {
		return e, nil
	}
	signal := driver.NewEvent(true)
	signalID, err := f.controller.ImportEvent(signal)
	if err != nil {
		return nil, ErrControllerTransportFailed
	}
	f.images.Insert(id, ImageEventData{SignalEvent: signal, SignalID: signalID})
	e, _ := f.images.Get(id)
	return e, nil
}

// DropImageEvent releases id's fence, if one was ever created. Called
// on image release.
func (f *FenceRegistry) DropImageEvent(id driver.ImageId) {
	if e, ok := f.images.Remove(id); ok {
		f.controller.ReleaseEvent(e.SignalID)
	}
}

// IsImageReady reports whether id may be assigned to a new frame: an
// image with no fence yet has never been used and is trivially ready;
// otherwise its signal event must already be signaled.
func (f *FenceRegistry) IsImageReady(id driver.ImageId) bool {
	e, ok := f.images.Get(id)
	if !ok {
		return true
	}
	return e.SignalEvent.Signaled()
}

// UnsignalImages unsignals the signal events of every image used in a
// just-committed configuration, so the controller may resignal them
// as the frames they belong to retire. Called only after the
// configuration has been confirmed feasible (CheckConfig succeeded).
func (f *FenceRegistry) UnsignalImages(ids []driver.ImageId) {
	for _, id := range ids {
		if e, ok := f.images.Get(id); ok {
			e.SignalEvent.Unsignal()
		}
	}
}
