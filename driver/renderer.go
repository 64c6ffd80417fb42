// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "github.com/onepiec1/fuchsia/linear"

// RenderImage is one source image plus the destination rectangle the
// renderer must composite it into, for a single GPU-fallback draw.
type RenderImage struct {
	Image ImageId
	Rect  Rect
}

// Renderer is the GPU composition pipeline: given a target image plus
// a list of source rectangles and images, it produces pixels and
// signals a fence on completion.
type Renderer interface {
	ImportBufferCollection(id CollectionId, allocator BufferAllocator, token BufferToken, usage Usage, sizeHint *ImageConfig) error
	ReleaseBufferCollection(id CollectionId) error
	ImportBufferImage(config ImageConfig, collection CollectionId, image ImageId) error
	ReleaseBufferImage(image ImageId) error

	// Render composites images into target, signaling every fence in
	// signalFences once drawing completes. applyCC requests that the
	// previously configured color-conversion matrix be applied in the
	// shader.
	Render(target ImageId, rects []Rect, images []RenderImage, signalFences []FenceHandle, applyCC bool) error

	ChoosePreferredPixelFormat(formats []PixelFormat) (PixelFormat, error)
	SupportsRenderInProtected() bool
	RequiresRenderInProtected(images []ImageId) bool

	SetColorConversion(coeff linear.M3, pre, post linear.V3) error
}
