// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// CollectionId identifies a buffer collection. It is chosen by the
// client at import time, not generated by the core.
type CollectionId uint64

// ImageId identifies a client image within a collection. It is chosen
// by the client at import time.
//
// InvalidImageId is the sentinel used in a RenderData entry to mark a
// solid-color rectangle rather than a sampled image.
type ImageId uint64

const InvalidImageId ImageId = 0

// DisplayId identifies a physical display, as handed to AddDisplay.
type DisplayId uint64

// LayerId identifies a display-controller layer, created by the core
// and owned by it for the life of the display.
type LayerId uint64

// EventId identifies a fence registered with the display controller
// via ImportEvent.
type EventId uint64

// ConfigStamp is the opaque, monotonically-increasing identifier the
// display controller returns from ApplyConfig and echoes back in
// vsync notifications.
type ConfigStamp uint64
