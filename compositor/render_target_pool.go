// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import "github.com/onepiec1/fuchsia/driver"

// RenderTargetPool is a display's ring of GPU back-buffers, plus an
// optional protected-memory ring used when a frame asks the renderer
// to draw into secure memory. Each ring slot is paired with its own
// FrameEventData.
type RenderTargetPool struct {
	Collection  driver.CollectionId
	PixelFormat driver.PixelFormat

	ring       []driver.ImageId
	ringEvents []FrameEventData

	protectedRing       []driver.ImageId
	protectedRingEvents []FrameEventData

	cursor int
}

// NewRenderTargetPool builds a pool over the given target images,
// creating one FrameEventData per slot via fences. protectedImages may
// be nil if the display never renders in protected memory.
func NewRenderTargetPool(collection driver.CollectionId, format driver.PixelFormat, images, protectedImages []driver.ImageId, fences *FenceRegistry) (*RenderTargetPool, error) {
	p := &RenderTargetPool{Collection: collection, PixelFormat: format}

	for range images {
		fe, err := fences.NewFrameEventData()
		if err != nil {
			return nil, err
		}
		p.ringEvents = append(p.ringEvents, fe)
	}
	p.ring = append([]driver.ImageId(nil), images...)

	for range protectedImages {
		fe, err := fences.NewFrameEventData()
		if err != nil {
			return nil, err
		}
		p.protectedRingEvents = append(p.protectedRingEvents, fe)
	}
	p.protectedRing = append([]driver.ImageId(nil), protectedImages...)

	return p, nil
}

// HasProtected reports whether this pool has a protected-memory ring.
func (p *RenderTargetPool) HasProtected() bool { return len(p.protectedRing) > 0 }

// Advance selects the next slot (from the protected ring if
// requested) and moves the shared cursor forward.
func (p *RenderTargetPool) Advance(protected bool) (target driver.ImageId, fe *FrameEventData) {
	ring, events := p.ring, p.ringEvents
	if protected && p.HasProtected() {
		ring, events = p.protectedRing, p.protectedRingEvents
	}
	idx := p.cursor % len(ring)
	p.cursor = (p.cursor + 1) % len(ring)
	return ring[idx], &events[idx]
}
