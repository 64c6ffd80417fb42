// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import (
	"github.com/onepiec1/fuchsia/driver"
	"github.com/onepiec1/fuchsia/linear"
)

// fakeToken is the BufferToken implementation used by every test
// fake; identity is all that matters for the assertions in this
// package.
type fakeToken int

// fakeAllocator implements driver.BufferAllocator.
type fakeAllocator struct {
	nextToken         fakeToken
	nextCollection    driver.CollectionId
	defaultAllocation driver.ImageConfig
	allocations       map[driver.CollectionId]driver.ImageConfig
	waitErr           map[driver.CollectionId]error
	closed            map[driver.CollectionId]bool
	constraints       map[driver.CollectionId][]driver.Constraints
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{
		nextCollection:    1000,
		defaultAllocation: driver.ImageConfig{Width: 64, Height: 64, PixelFormat: driver.PixelFormatRGBA8888},
		allocations:       make(map[driver.CollectionId]driver.ImageConfig),
		waitErr:           make(map[driver.CollectionId]error),
		closed:            make(map[driver.CollectionId]bool),
		constraints:       make(map[driver.CollectionId][]driver.Constraints),
	}
}

func (a *fakeAllocator) AllocateCollection() (driver.BufferToken, error) {
	a.nextToken++
	return a.nextToken, nil
}

func (a *fakeAllocator) BindSharedCollection(token driver.BufferToken) (driver.CollectionId, error) {
	a.nextCollection++
	return a.nextCollection, nil
}

func (a *fakeAllocator) DuplicateTokenSync(token driver.BufferToken, n int) ([]driver.BufferToken, error) {
	out := make([]driver.BufferToken, n)
	for i := range out {
		a.nextToken++
		out[i] = a.nextToken
	}
	return out, nil
}

func (a *fakeAllocator) AttachToken(token driver.BufferToken) (driver.BufferToken, error) {
	a.nextToken++
	return a.nextToken, nil
}

func (a *fakeAllocator) SetConstraints(id driver.CollectionId, c driver.Constraints) error {
	a.constraints[id] = append(a.constraints[id], c)
	return nil
}

func (a *fakeAllocator) WaitForBuffersAllocated(id driver.CollectionId) (driver.ImageConfig, error) {
	if err, ok := a.waitErr[id]; ok {
		return driver.ImageConfig{}, err
	}
	if cfg, ok := a.allocations[id]; ok {
		return cfg, nil
	}
	return a.defaultAllocation, nil
}

func (a *fakeAllocator) CheckBuffersAllocated(id driver.CollectionId) (bool, error) {
	_, ok := a.allocations[id]
	return ok, nil
}

func (a *fakeAllocator) Close(id driver.CollectionId) error {
	a.closed[id] = true
	return nil
}

// fakeRenderer implements driver.Renderer.
type fakeRenderer struct {
	rejectCollections map[driver.CollectionId]bool
	rejectImages      map[driver.ImageId]bool
	preferredFormat   driver.PixelFormat
	protectedSupport  bool
	protectedRequired bool
	renderErr         error

	renderCalls  []renderCall
	releasedColl []driver.CollectionId
	releasedImg  []driver.ImageId
	ccCalls      []ccCall
}

type renderCall struct {
	target      driver.ImageId
	rects       []driver.Rect
	images      []driver.RenderImage
	signalCount int
	applyCC     bool
}

type ccCall struct {
	coeff linear.M3
	pre   linear.V3
	post  linear.V3
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		rejectCollections: make(map[driver.CollectionId]bool),
		rejectImages:      make(map[driver.ImageId]bool),
		preferredFormat:   driver.PixelFormatRGBA8888,
	}
}

func (r *fakeRenderer) ImportBufferCollection(id driver.CollectionId, allocator driver.BufferAllocator, token driver.BufferToken, usage driver.Usage, sizeHint *driver.ImageConfig) error {
	if r.rejectCollections[id] {
		return ErrRendererRejected
	}
	return nil
}

func (r *fakeRenderer) ReleaseBufferCollection(id driver.CollectionId) error {
	r.releasedColl = append(r.releasedColl, id)
	return nil
}

func (r *fakeRenderer) ImportBufferImage(config driver.ImageConfig, collection driver.CollectionId, image driver.ImageId) error {
	if r.rejectImages[image] {
		return ErrRendererRejected
	}
	return nil
}

func (r *fakeRenderer) ReleaseBufferImage(image driver.ImageId) error {
	r.releasedImg = append(r.releasedImg, image)
	return nil
}

func (r *fakeRenderer) Render(target driver.ImageId, rects []driver.Rect, images []driver.RenderImage, signalFences []driver.FenceHandle, applyCC bool) error {
	if r.renderErr != nil {
		return r.renderErr
	}
	r.renderCalls = append(r.renderCalls, renderCall{target, rects, images, len(signalFences), applyCC})
	return nil
}

func (r *fakeRenderer) ChoosePreferredPixelFormat(formats []driver.PixelFormat) (driver.PixelFormat, error) {
	return r.preferredFormat, nil
}

func (r *fakeRenderer) SupportsRenderInProtected() bool { return r.protectedSupport }

func (r *fakeRenderer) RequiresRenderInProtected(images []driver.ImageId) bool {
	return r.protectedRequired
}

func (r *fakeRenderer) SetColorConversion(coeff linear.M3, pre, post linear.V3) error {
	r.ccCalls = append(r.ccCalls, ccCall{coeff, pre, post})
	return nil
}

// fakeController implements driver.DisplayController.
type fakeController struct {
	nextLayer driver.LayerId
	nextEvent driver.EventId

	layers      map[driver.DisplayId][]driver.LayerId
	vsyncFns    map[driver.DisplayId]driver.VsyncFunc
	appliedCC   map[driver.DisplayId]driver.CCData
	stamp       driver.ConfigStamp

	checkOK  bool
	checkErr error

	setLayerImageCalls  []setLayerImageCall
	colorConfigCalls    []colorConfigCall
	positionCalls       []positionCall
	displayLayersCalls  [][]driver.LayerId
	applyCount          int
	discardCount        int
}

type setLayerImageCall struct {
	layer    driver.LayerId
	image    driver.ImageId
	waitID   driver.EventId
	signalID driver.EventId
}

type colorConfigCall struct {
	layer  driver.LayerId
	format driver.PixelFormat
	rgba   [4]uint8
}

type positionCall struct {
	layer     driver.LayerId
	transform driver.Transform
	src, dst  driver.Rect
}

func newFakeController() *fakeController {
	return &fakeController{
		layers:    make(map[driver.DisplayId][]driver.LayerId),
		vsyncFns:  make(map[driver.DisplayId]driver.VsyncFunc),
		appliedCC: make(map[driver.DisplayId]driver.CCData),
		checkOK:   true,
	}
}

func (c *fakeController) CreateLayer(display driver.DisplayId) (driver.LayerId, error) {
	c.nextLayer++
	return c.nextLayer, nil
}

func (c *fakeController) DestroyLayer(layer driver.LayerId) error { return nil }

func (c *fakeController) SetDisplayLayers(display driver.DisplayId, layers []driver.LayerId) error {
	c.layers[display] = append([]driver.LayerId(nil), layers...)
	c.displayLayersCalls = append(c.displayLayersCalls, layers)
	return nil
}

func (c *fakeController) ImportBufferCollection(id driver.CollectionId, token driver.BufferToken) error {
	return nil
}

func (c *fakeController) ReleaseBufferCollection(id driver.CollectionId) error { return nil }

func (c *fakeController) ImportImage(config driver.ImageConfig, collection driver.CollectionId, image driver.ImageId, vmoIndex int) error {
	return nil
}

func (c *fakeController) ReleaseImage(image driver.ImageId) error { return nil }

func (c *fakeController) SetLayerPrimaryConfig(layer driver.LayerId, config driver.ImageConfig) error {
	return nil
}

func (c *fakeController) SetLayerPrimaryPosition(layer driver.LayerId, transform driver.Transform, src, dst driver.Rect) error {
	c.positionCalls = append(c.positionCalls, positionCall{layer, transform, src, dst})
	return nil
}

func (c *fakeController) SetLayerPrimaryAlpha(layer driver.LayerId, mode driver.AlphaMode, alpha float32) error {
	return nil
}

func (c *fakeController) SetLayerImage(layer driver.LayerId, image driver.ImageId, waitID, signalID driver.EventId) error {
	c.setLayerImageCalls = append(c.setLayerImageCalls, setLayerImageCall{layer, image, waitID, signalID})
	return nil
}

func (c *fakeController) SetLayerColorConfig(layer driver.LayerId, format driver.PixelFormat, rgba [4]uint8) error {
	c.colorConfigCalls = append(c.colorConfigCalls, colorConfigCall{layer, format, rgba})
	return nil
}

func (c *fakeController) SetDisplayColorConversion(display driver.DisplayId, pre linear.V3, coeff linear.M3, post linear.V3) error {
	c.appliedCC[display] = driver.CCData{Coefficients: coeff, PreOffsets: pre, PostOffsets: post}
	return nil
}

func (c *fakeController) CheckConfig(discard bool) (bool, []driver.ConfigOp, error) {
	if discard {
		c.discardCount++
	}
	return c.checkOK, nil, c.checkErr
}

func (c *fakeController) ApplyConfig() (driver.ConfigStamp, error) {
	c.applyCount++
	c.stamp++
	return c.stamp, nil
}

func (c *fakeController) GetLatestAppliedConfigStamp() (driver.ConfigStamp, error) {
	return c.stamp, nil
}

func (c *fakeController) ImportEvent(handle driver.FenceHandle) (driver.EventId, error) {
	c.nextEvent++
	return c.nextEvent, nil
}

func (c *fakeController) ReleaseEvent(id driver.EventId) error { return nil }

func (c *fakeController) SetMinimumRGB(value uint8) error { return nil }

func (c *fakeController) SetVsyncCallback(display driver.DisplayId, fn driver.VsyncFunc) error {
	c.vsyncFns[display] = fn
	return nil
}

// fakeReleaseFenceManager implements driver.ReleaseFenceManager.
type fakeReleaseFenceManager struct {
	directCalls []directCall
	gpuCalls    []gpuCall
	vsyncCalls  []vsyncCall
}

type directCall struct {
	frameNo  uint64
	fences   int
	callback driver.PresentCallback
}

type gpuCall struct {
	frameNo  uint64
	fences   int
	callback driver.PresentCallback
}

type vsyncCall struct {
	frameNo   uint64
	timestamp int64
}

func (m *fakeReleaseFenceManager) OnDirectScanoutFrame(frameNo uint64, releaseFences []driver.FenceHandle, callback driver.PresentCallback) {
	m.directCalls = append(m.directCalls, directCall{frameNo, len(releaseFences), callback})
}

func (m *fakeReleaseFenceManager) OnGpuCompositedFrame(frameNo uint64, renderFinishedFence driver.FenceHandle, releaseFences []driver.FenceHandle, callback driver.PresentCallback) {
	m.gpuCalls = append(m.gpuCalls, gpuCall{frameNo, len(releaseFences), callback})
}

// OnVsync records the retirement and fires the present callback of the
// retired frame, as a real ReleaseFenceManager does.
func (m *fakeReleaseFenceManager) OnVsync(frameNo uint64, timestamp int64) {
	m.vsyncCalls = append(m.vsyncCalls, vsyncCall{frameNo, timestamp})
	for _, c := range m.directCalls {
		if c.frameNo == frameNo && c.callback != nil {
			c.callback()
		}
	}
	for _, c := range m.gpuCalls {
		if c.frameNo == frameNo && c.callback != nil {
			c.callback()
		}
	}
}
