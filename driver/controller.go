// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "github.com/onepiec1/fuchsia/linear"

// ConfigOp describes a single adjustment the display controller made
// (or would make) while validating a staged configuration, as
// returned by CheckConfig.
type ConfigOp struct {
	Layer LayerId
	Note  string
}

// VsyncFunc is the callback signature the display controller invokes
// on every vertical sync, from an unspecified thread.
type VsyncFunc func(timestamp int64, stamp ConfigStamp)

// DisplayController is the wire protocol offered by scanout hardware:
// layer lifecycle, buffer/image import, per-layer configuration,
// config staging (check/apply), and vsync delivery.
//
// All methods may block on a transport round-trip. The core serializes
// calls to a single DisplayController under its own mutex; the
// interface itself makes no concurrency guarantee.
type DisplayController interface {
	CreateLayer(display DisplayId) (LayerId, error)
	DestroyLayer(layer LayerId) error
	SetDisplayLayers(display DisplayId, layers []LayerId) error

	ImportBufferCollection(id CollectionId, token BufferToken) error
	ReleaseBufferCollection(id CollectionId) error
	ImportImage(config ImageConfig, collection CollectionId, image ImageId, vmoIndex int) error
	ReleaseImage(image ImageId) error

	SetLayerPrimaryConfig(layer LayerId, config ImageConfig) error
	SetLayerPrimaryPosition(layer LayerId, transform Transform, src, dst Rect) error
	SetLayerPrimaryAlpha(layer LayerId, mode AlphaMode, alpha float32) error
	SetLayerImage(layer LayerId, image ImageId, waitID, signalID EventId) error
	SetLayerColorConfig(layer LayerId, format PixelFormat, rgba [4]uint8) error

	SetDisplayColorConversion(display DisplayId, pre linear.V3, coeff linear.M3, post linear.V3) error

	// CheckConfig validates the currently staged configuration without
	// committing it. discard reverts the staged configuration after
	// validating it, used to probe feasibility without side effects.
	CheckConfig(discard bool) (ok bool, ops []ConfigOp, err error)
	ApplyConfig() (ConfigStamp, error)
	GetLatestAppliedConfigStamp() (ConfigStamp, error)

	ImportEvent(handle FenceHandle) (EventId, error)
	ReleaseEvent(id EventId) error

	SetMinimumRGB(value uint8) error

	// SetVsyncCallback installs the function the controller invokes on
	// every vsync. The core passes a weak reference so that holding the
	// callback does not keep the orchestrator alive past the display.
	SetVsyncCallback(display DisplayId, fn VsyncFunc) error
}

// FenceHandle is a kernel event object (e.g., a Zircon event handle)
// that the core owns. Signaled/Signal/Unsignal are local, non-blocking
// operations on the handle the core retains; a duplicate of the same
// underlying object is handed to the display controller via
// ImportEvent so the controller can wait on or signal it from its
// side without a round trip back into the core.
type FenceHandle interface {
	Signaled() bool
	Signal()
	Unsignal()
}
