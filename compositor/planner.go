// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import (
	"github.com/onepiec1/fuchsia/driver"
	"github.com/onepiec1/fuchsia/linear"
)

// DisplayInfo is the immutable shape of a display, as reported to
// AddDisplay: its pixel dimensions and its supported pixel formats in
// order of preference.
type DisplayInfo struct {
	Width, Height int
	Formats       []driver.PixelFormat
}

// RenderEntry pairs a destination rectangle with either a sampled
// image or, when Image is driver.InvalidImageId, a solid color to
// fill the rectangle with.
type RenderEntry struct {
	Image      driver.ImageId
	Rect       driver.Rect
	SolidColor linear.V4
}

// RenderData is one display's worth of layer assignments for a frame:
// rectangles and images are paired 1:1, front to back starting at
// layer 0.
type RenderData struct {
	Display driver.DisplayId
	Entries []RenderEntry
}

// DirectScanoutPlanner maps a RenderData onto a display's hardware
// layers, or rejects it so the caller can fall back to GPU
// composition.
type DirectScanoutPlanner struct {
	controller driver.DisplayController
	layers     *LayerPool
	buffers    *BufferRegistry
	fences     *FenceRegistry
	displays   map[driver.DisplayId]DisplayInfo
}

func NewDirectScanoutPlanner(c driver.DisplayController, layers *LayerPool, buffers *BufferRegistry, fences *FenceRegistry) *DirectScanoutPlanner {
	return &DirectScanoutPlanner{
		controller: c, layers: layers, buffers: buffers, fences: fences,
		displays: make(map[driver.DisplayId]DisplayInfo),
	}
}

// SetDisplayInfo records a display's geometry, used to validate
// solid-color rectangles.
func (p *DirectScanoutPlanner) SetDisplayInfo(id driver.DisplayId, info DisplayInfo) {
	p.displays[id] = info
}

// Plan attempts to assign data directly to display hardware layers.
// On success it returns the client image ids used, so the caller may
// unsignal their fences once the configuration is confirmed feasible.
func (p *DirectScanoutPlanner) Plan(data RenderData) (ok bool, usedImages []driver.ImageId) {
	layers := p.layers.Layers(data.Display)
	n := len(data.Entries)
	if n == 0 || n > len(layers) {
		return false, nil
	}
	info, known := p.displays[data.Display]
	if !known {
		return false, nil
	}

	for i, e := range data.Entries {
		if e.Image == driver.InvalidImageId {
			if i != 0 {
				return false, nil
			}
			full := driver.Rect{X: 0, Y: 0, W: info.Width, H: info.Height}
			if e.Rect != full {
				return false, nil
			}
			continue
		}
		meta, found := p.buffers.Image(e.Image)
		if !found {
			return false, nil
		}
		if _, supported := p.buffers.DisplaySupported(meta.collection); !supported {
			return false, nil
		}
		if !p.fences.IsImageReady(e.Image) {
			return false, nil
		}
		usedImages = append(usedImages, e.Image)
	}

	active := layers[:n]
	if err := p.controller.SetDisplayLayers(data.Display, active); err != nil {
		return false, nil
	}

	for i, e := range data.Entries {
		layer := active[i]
		if e.Image == driver.InvalidImageId {
			rgba := [4]uint8{
				driver.QuantizeChannel(e.SolidColor[0]),
				driver.QuantizeChannel(e.SolidColor[1]),
				driver.QuantizeChannel(e.SolidColor[2]),
				driver.QuantizeChannel(e.SolidColor[3]),
			}
			format := driver.PixelFormatInvalid
			if len(info.Formats) > 0 {
				format = info.Formats[0]
			}
			p.controller.SetLayerColorConfig(layer, format, rgba)
			continue
		}

		meta, _ := p.buffers.Image(e.Image)
		pf, _ := p.buffers.DisplaySupported(meta.collection)
		cfg := driver.ImageConfig{Width: meta.width, Height: meta.height, PixelFormat: pf}
		p.controller.SetLayerPrimaryConfig(layer, cfg)

		transform := driver.ComposeTransform(meta.orientation, meta.flip)
		src := driver.Rect{X: 0, Y: 0, W: meta.width, H: meta.height}
		p.controller.SetLayerPrimaryPosition(layer, transform, src, e.Rect)

		alpha := driver.AlphaModeFor(meta.blend)
		p.controller.SetLayerPrimaryAlpha(layer, alpha, meta.multiply[3])

		fe, err := p.fences.EnsureImageEvent(e.Image)
		if err != nil {
			return false, nil
		}
		p.controller.SetLayerImage(layer, e.Image, 0, fe.SignalID)
	}

	return true, usedImages
}
