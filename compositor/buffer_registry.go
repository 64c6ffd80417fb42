// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import (
	"github.com/onepiec1/fuchsia/driver"
	"github.com/onepiec1/fuchsia/internal/registry"
	"github.com/onepiec1/fuchsia/linear"
)

// supportState is the tri-state display-support tag for a buffer
// collection: pixel format is known iff the state is supportYes.
type supportState int

const (
	supportUnknown supportState = iota
	supportYes
	supportNo
)

type bufferCollection struct {
	importMode       driver.ImportMode
	rendererImported bool
	display          supportState
	pixelFormat      driver.PixelFormat
	observation      driver.BufferToken
	imageCount       int
}

type imageMetadata struct {
	collection  driver.CollectionId
	vmoIndex    int
	width       int
	height      int
	orientation driver.Orientation
	flip        driver.Flip
	blend       driver.BlendMode
	multiply    [4]float32
}

// BufferRegistry tracks per-collection renderer/display acceptance and
// per-image metadata. It is not safe for concurrent use; the
// orchestrator serializes all access under its own mutex.
type BufferRegistry struct {
	allocator  driver.BufferAllocator
	renderer   driver.Renderer
	controller driver.DisplayController

	collections registry.Registry[driver.CollectionId, bufferCollection]
	images      registry.Registry[driver.ImageId, imageMetadata]
}

// NewBufferRegistry builds a registry driving the given collaborators.
func NewBufferRegistry(a driver.BufferAllocator, r driver.Renderer, c driver.DisplayController) *BufferRegistry {
	return &BufferRegistry{allocator: a, renderer: r, controller: c}
}

// ImportCollection splits token three ways across the renderer, a
// local observation handle, and the display, according to mode. The
// display leg's handling depends on mode: RendererOnly closes it
// immediately; EnforceDisplayConstraints forwards it unmodified;
// AttemptDisplayConstraints converts it into an attach token first.
func (b *BufferRegistry) ImportCollection(id driver.CollectionId, token driver.BufferToken, mode driver.ImportMode, sizeHint *driver.ImageConfig) error {
	if b.collections.Has(id) {
		return ErrTokenDuplicateFailed
	}

	copies, err := b.allocator.DuplicateTokenSync(token, 2)
	if err != nil {
		return ErrTokenDuplicateFailed
	}
	rendererToken, observationToken := copies[0], copies[1]
	displayToken := token

	if err := b.renderer.ImportBufferCollection(id, b.allocator, rendererToken, driver.UsageClientImage, sizeHint); err != nil {
		return ErrRendererRejected
	}

	if _, err := b.allocator.BindSharedCollection(observationToken); err != nil {
		b.renderer.ReleaseBufferCollection(id)
		return ErrRendererRejected
	}

	entry := bufferCollection{importMode: mode, rendererImported: true, observation: observationToken}

	switch mode {
	case driver.RendererOnly:
		b.allocator.Close(id)
		entry.display = supportNo

	case driver.EnforceDisplayConstraints:
		if err := b.controller.ImportBufferCollection(id, displayToken); err != nil {
			b.renderer.ReleaseBufferCollection(id)
			return ErrDisplayImportFailed
		}

	case driver.AttemptDisplayConstraints:
		attach, err := b.allocator.AttachToken(displayToken)
		if err != nil {
			b.renderer.ReleaseBufferCollection(id)
			return ErrDisplayImportFailed
		}
		// A failure to import the attach token is not fatal: the
		// renderer path remains usable. Errors are swallowed here and
		// surface later as display == supportNo.
		if err := b.controller.ImportBufferCollection(id, attach); err != nil {
			entry.display = supportNo
		}
	}

	b.collections.Insert(id, entry)
	return nil
}

// ReleaseCollection releases a collection from display and renderer
// and drops all cached state for it.
func (b *BufferRegistry) ReleaseCollection(id driver.CollectionId) error {
	c, ok := b.collections.Get(id)
	if !ok {
		return ErrCollectionNotFound
	}
	if c.display != supportNo {
		b.controller.ReleaseBufferCollection(id)
	}
	b.renderer.ReleaseBufferCollection(id)
	b.collections.Remove(id)
	return nil
}

// ImportImage validates metadata, imports it into the renderer, and —
// on the first image seen for its collection — probes display
// support by attempting to read the allocated buffers through the
// local observation handle.
func (b *BufferRegistry) ImportImage(id driver.ImageId, collection driver.CollectionId, vmoIndex, width, height int, o driver.Orientation, f driver.Flip, blend driver.BlendMode, multiply [4]float32) error {
	if id == driver.InvalidImageId || width <= 0 || height <= 0 {
		return ErrImageInvalid
	}
	c, ok := b.collections.Get(collection)
	if !ok {
		return ErrCollectionNotFound
	}
	if b.images.Has(id) {
		return ErrTokenDuplicateFailed
	}

	if c.imageCount == 0 {
		cfg, err := b.allocator.WaitForBuffersAllocated(collection)
		// A collection already marked supportNo (RendererOnly, or a failed
		// attach import) stays unsupported whatever the allocation yields.
		allocated := c.display != supportNo && err == nil && !cfg.PixelFormat.IsYUV() && cfg.PixelFormat != driver.PixelFormatInvalid
		switch {
		case allocated:
			c.display = supportYes
			c.pixelFormat = cfg.PixelFormat
		default:
			c.display = supportNo
			if c.importMode == driver.EnforceDisplayConstraints {
				return ErrDisplayImportFailed
			}
		}
	}
	c.imageCount++

	if err := b.renderer.ImportBufferImage(driver.ImageConfig{Width: width, Height: height, PixelFormat: c.pixelFormat}, collection, id); err != nil {
		return ErrRendererRejected
	}

	if c.display == supportYes {
		cfg := driver.ImageConfig{Width: width, Height: height, PixelFormat: c.pixelFormat}
		if err := b.controller.ImportImage(cfg, collection, id, vmoIndex); err != nil {
			return ErrDisplayImportFailed
		}
	}

	// A client-supplied multiply color is not trusted to already lie in
	// [0, 1]; it is clamped once here, so its alpha channel reaches
	// SetLayerPrimaryAlpha already inside that range.
	clamped := linear.ClampV4(linear.V4(multiply), 0, 1)

	b.images.Insert(id, imageMetadata{
		collection: collection, vmoIndex: vmoIndex,
		width: width, height: height,
		orientation: o, flip: f, blend: blend, multiply: [4]float32(clamped),
	})
	return nil
}

// ReleaseImage releases an image from display and renderer and drops
// its metadata.
func (b *BufferRegistry) ReleaseImage(id driver.ImageId) error {
	m, ok := b.images.Get(id)
	if !ok {
		return ErrImageInvalid
	}
	if c, ok := b.collections.Get(m.collection); ok && c.display == supportYes {
		b.controller.ReleaseImage(id)
	}
	b.renderer.ReleaseBufferImage(id)
	b.images.Remove(id)
	return nil
}

// DisplaySupported reports whether id's collection is known to scan
// out directly, and its negotiated pixel format if so.
func (b *BufferRegistry) DisplaySupported(id driver.CollectionId) (driver.PixelFormat, bool) {
	c, ok := b.collections.Get(id)
	if !ok || c.display != supportYes {
		return driver.PixelFormatInvalid, false
	}
	return c.pixelFormat, true
}

// Image returns the metadata for a previously imported image.
func (b *BufferRegistry) Image(id driver.ImageId) (imageMetadata, bool) {
	m, ok := b.images.Get(id)
	if !ok {
		return imageMetadata{}, false
	}
	return *m, true
}
