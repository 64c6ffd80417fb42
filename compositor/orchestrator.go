// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package compositor

import (
	"log"
	"sync"
	"weak"

	"golang.org/x/sync/errgroup"

	"github.com/onepiec1/fuchsia/driver"
	"github.com/onepiec1/fuchsia/linear"
)

type displayState struct {
	info      DisplayInfo
	preferred driver.PixelFormat
	targets   *RenderTargetPool
}

// Compositor is the per-frame display compositor core. It arbitrates
// between direct scanout and GPU composition, and is the only type in
// this package a client constructs directly.
//
// All exported methods serialize under a single mutex, matching the
// source model: the display-controller handle is uniquely owned and
// effectively non-reentrant, so the mutex is held across controller
// round trips as well as internal bookkeeping.
type Compositor struct {
	mu sync.Mutex

	controller    driver.DisplayController
	allocator     driver.BufferAllocator
	renderer      driver.Renderer
	releaseFences driver.ReleaseFenceManager

	config Config

	buffers *BufferRegistry
	fences  *FenceRegistry
	layers  *LayerPool
	planner *DirectScanoutPlanner
	cc      ColorConversionStateMachine
	pending pendingApplyQueue

	displays map[driver.DisplayId]*displayState

	lastPresentedStamp driver.ConfigStamp
	havePresented      bool

	nextInternalImage driver.ImageId
}

// New builds a Compositor driving the given collaborators.
func New(controller driver.DisplayController, allocator driver.BufferAllocator, renderer driver.Renderer, releaseFences driver.ReleaseFenceManager, cfg Config) *Compositor {
	o := &Compositor{
		controller:        controller,
		allocator:         allocator,
		renderer:          renderer,
		releaseFences:     releaseFences,
		config:            cfg,
		displays:          make(map[driver.DisplayId]*displayState),
		nextInternalImage: 1 << 32, // reserved range, outside client-chosen ids
	}
	o.buffers = NewBufferRegistry(allocator, renderer, controller)
	o.fences = NewFenceRegistry(controller)
	o.layers = NewLayerPool(controller)
	o.planner = NewDirectScanoutPlanner(controller, o.layers, o.buffers, o.fences)
	return o
}

// ImportBufferCollection negotiates a client-supplied collection
// token across the renderer and display, per mode.
func (o *Compositor) ImportBufferCollection(id driver.CollectionId, token driver.BufferToken, mode driver.ImportMode, sizeHint *driver.ImageConfig) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buffers.ImportCollection(id, token, mode, sizeHint)
}

// ReleaseBufferCollection releases a previously imported collection.
func (o *Compositor) ReleaseBufferCollection(id driver.CollectionId) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buffers.ReleaseCollection(id)
}

// ImportBufferImage imports a single client image from an already
// imported collection.
func (o *Compositor) ImportBufferImage(id driver.ImageId, collection driver.CollectionId, vmoIndex, width, height int, orientation driver.Orientation, flip driver.Flip, blend driver.BlendMode, multiply [4]float32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buffers.ImportImage(id, collection, vmoIndex, width, height, orientation, flip, blend, multiply)
}

// ReleaseBufferImage releases a previously imported image.
func (o *Compositor) ReleaseBufferImage(id driver.ImageId) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fences.DropImageEvent(id)
	return o.buffers.ReleaseImage(id)
}

// SetColorConversion stages a new color-conversion matrix, applied
// lazily on the next frame.
func (o *Compositor) SetColorConversion(coeff linear.M3, pre, post linear.V3) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cc.Set(driver.CCData{Coefficients: coeff, PreOffsets: pre, PostOffsets: post})
}

// SetMinimumRGB forwards the minimum-RGB floor to the display
// controller. Whether this belongs under the core's mutex is
// ambiguous in the design this core is modeled on; this core keeps it
// guarded like every other controller call.
func (o *Compositor) SetMinimumRGB(value uint8) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.controller.SetMinimumRGB(value) == nil
}

// AddDisplay registers a new display: it creates its layers, installs
// the vsync callback, and optionally negotiates a render-target
// collection sized for GPU fallback.
func (o *Compositor) AddDisplay(display driver.DisplayId, info DisplayInfo, numRenderTargets int) (*driver.ImageConfig, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	preferred, err := o.renderer.ChoosePreferredPixelFormat(info.Formats)
	if err != nil {
		return nil, ErrControllerTransportFailed
	}
	if err := o.layers.CreateLayers(display, 2); err != nil {
		return nil, err
	}
	o.planner.SetDisplayInfo(display, info)

	// A weak reference breaks the cycle: the controller holds this
	// callback (strongly) for the display's lifetime, and the callback
	// must not be the thing keeping the compositor alive.
	weakSelf := weak.Make(o)
	if err := o.controller.SetVsyncCallback(display, func(ts int64, stamp driver.ConfigStamp) {
		if c := weakSelf.Value(); c != nil {
			c.OnVsync(ts, stamp)
		}
	}); err != nil {
		return nil, ErrControllerTransportFailed
	}

	o.displays[display] = &displayState{info: info, preferred: preferred}

	if numRenderTargets <= 0 {
		return nil, nil
	}
	return o.negotiateRenderTargets(display, info, preferred, numRenderTargets)
}

func (o *Compositor) negotiateRenderTargets(display driver.DisplayId, info DisplayInfo, preferred driver.PixelFormat, n int) (*driver.ImageConfig, error) {
	sizeHint := driver.ImageConfig{Width: info.Width, Height: info.Height, PixelFormat: preferred}

	root, err := o.allocator.AllocateCollection()
	if err != nil {
		return nil, ErrControllerTransportFailed
	}
	collID, err := o.allocator.BindSharedCollection(root)
	if err != nil {
		return nil, ErrControllerTransportFailed
	}
	copies, err := o.allocator.DuplicateTokenSync(root, 2)
	if err != nil {
		return nil, ErrControllerTransportFailed
	}
	if err := o.renderer.ImportBufferCollection(collID, o.allocator, copies[0], driver.UsageRenderTarget, &sizeHint); err != nil {
		return nil, ErrRendererRejected
	}
	if err := o.controller.ImportBufferCollection(collID, copies[1]); err != nil {
		return nil, ErrDisplayImportFailed
	}

	protected := o.renderer.SupportsRenderInProtected()
	usage := driver.UsageNone
	if o.config.DebugReadableRenderTargets {
		usage = driver.UsageCPUWriteOften
	}
	constraints := driver.Constraints{MinBufferCountForCamping: n, Usage: usage}
	if protected {
		constraints.Protected = true
	}
	if err := o.allocator.SetConstraints(collID, constraints); err != nil {
		return nil, ErrControllerTransportFailed
	}

	cfg, err := o.allocator.WaitForBuffersAllocated(collID)
	if err != nil {
		return nil, ErrDisplayImportFailed
	}

	images := make([]driver.ImageId, n)
	for i := range images {
		id := o.nextInternalImage
		o.nextInternalImage++
		if err := o.renderer.ImportBufferImage(cfg, collID, id); err != nil {
			return nil, ErrRendererRejected
		}
		if err := o.controller.ImportImage(cfg, collID, id, i); err != nil {
			return nil, ErrDisplayImportFailed
		}
		images[i] = id
	}

	var protectedImages []driver.ImageId
	if protected {
		protectedImages = make([]driver.ImageId, n)
		for i := range protectedImages {
			id := o.nextInternalImage
			o.nextInternalImage++
			if err := o.renderer.ImportBufferImage(cfg, collID, id); err != nil {
				return nil, ErrRendererRejected
			}
			if err := o.controller.ImportImage(cfg, collID, id, n+i); err != nil {
				return nil, ErrDisplayImportFailed
			}
			protectedImages[i] = id
		}
	}

	pool, err := NewRenderTargetPool(collID, cfg.PixelFormat, images, protectedImages, o.fences)
	if err != nil {
		return nil, err
	}
	o.displays[display].targets = pool
	return &cfg, nil
}

// RenderFrame is the top-level per-frame entry point: it discards any
// stale staged configuration and attempts direct scanout for every
// display. If any display cannot be scanned out directly, or the
// checked configuration is rejected, every display in the frame is
// composited through the GPU fallback path instead.
func (o *Compositor) RenderFrame(frameNo uint64, presentationTime int64, renderDataList []RenderData, releaseFences []driver.FenceHandle, callback driver.PresentCallback) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.discardConfig()

	ok, usedImages := o.tryDirectScanoutAll(renderDataList)
	fallback := !ok || o.config.DisableDirectScanout
	if !fallback {
		checked, _, err := o.controller.CheckConfig(false)
		if err != nil {
			return ErrControllerTransportFailed
		}
		fallback = !checked
	}

	if fallback {
		o.discardConfig()
		o.gpuFallback(renderDataList, frameNo, releaseFences, callback)
		return nil
	}

	o.cc.MarkAppliedDirect()
	o.fences.UnsignalImages(usedImages)
	o.releaseFences.OnDirectScanoutFrame(frameNo, releaseFences, callback)

	stamp, err := o.controller.ApplyConfig()
	if err != nil {
		return ErrControllerTransportFailed
	}
	o.pending.enqueue(stamp, frameNo)
	return nil
}

// discardConfig resets any staged configuration left in the
// controller from a previous, abandoned attempt.
func (o *Compositor) discardConfig() {
	o.controller.CheckConfig(true)
}

func (o *Compositor) tryDirectScanoutAll(list []RenderData) (ok bool, usedImages []driver.ImageId) {
	for _, rd := range list {
		planOK, used := o.planner.Plan(rd)
		if !planOK {
			return false, nil
		}
		usedImages = append(usedImages, used...)
	}
	if cc, pending := o.cc.DataToApply(); pending {
		for _, rd := range list {
			o.controller.SetDisplayColorConversion(rd.Display, cc.PreOffsets, cc.Coefficients, cc.PostOffsets)
		}
	}
	return true, usedImages
}

type gpuSlot struct {
	display driver.DisplayId
	target  driver.ImageId
	fe      *FrameEventData
}

// gpuFallback runs the GPU-composition path for every display in the
// frame. Failures here are swallowed: a render failure is logged, and
// a render, CheckConfig or ApplyConfig failure returns without
// enqueuing the frame, so its release fences are left unfired.
func (o *Compositor) gpuFallback(list []RenderData, frameNo uint64, releaseFences []driver.FenceHandle, callback driver.PresentCallback) {
	if o.cc.GPURequiresDisplayClearing() {
		var identity driver.CCData
		identity.Coefficients.I()
		for _, rd := range list {
			o.controller.SetDisplayColorConversion(rd.Display, identity.PreOffsets, identity.Coefficients, identity.PostOffsets)
		}
		o.cc.MarkDisplayCleared()
	}

	// A non-identity CC stays the GPU's responsibility for as long as it
	// is in effect, not only on the single frame that staged it: once
	// direct scanout hands CC duty to the GPU path (or a frame never
	// left the dirty phase), every GPU-composited frame must keep
	// applying it in the renderer's shader.
	applyCC := false
	if data, active := o.cc.Current(); active {
		if !data.IsIdentity() {
			if err := o.renderer.SetColorConversion(data.Coefficients, data.PreOffsets, data.PostOffsets); err == nil {
				applyCC = true
			}
		}
		o.cc.MarkAppliedGPU()
	}

	// A debug tint takes priority over a client-configured CC: it exists
	// purely to make GPU-composited frames visually distinguishable in
	// debug builds, reusing the CC shader path as its vehicle rather than
	// a separate one.
	if dbg := o.config.DebugMultiplyColor; dbg != (linear.V4{}) {
		var identCoeff linear.M3
		identCoeff.I()
		post := linear.V3{dbg[0], dbg[1], dbg[2]}
		if err := o.renderer.SetColorConversion(identCoeff, linear.V3{}, post); err == nil {
			applyCC = true
		}
	}

	renderFinished := driver.NewEvent(false)
	slots := make([]gpuSlot, len(list))

	var g errgroup.Group
	for i, rd := range list {
		i, rd := i, rd
		g.Go(func() error {
			ds, known := o.displays[rd.Display]
			if !known || ds.targets == nil {
				return ErrDisplayNotFound
			}
			images := make([]driver.ImageId, len(rd.Entries))
			for j, e := range rd.Entries {
				images[j] = e.Image
			}
			protected := o.renderer.RequiresRenderInProtected(images)
			target, fe := ds.targets.Advance(protected)

			if !fe.SignalEvent.Signaled() {
				log.Printf("compositor: display %d back-buffer not yet retired by controller; proceeding anyway", rd.Display)
			}
			fe.WaitEvent.Unsignal()
			fe.SignalEvent.Unsignal()

			rects := make([]driver.Rect, len(rd.Entries))
			renderImages := make([]driver.RenderImage, len(rd.Entries))
			for j, e := range rd.Entries {
				rects[j] = e.Rect
				renderImages[j] = driver.RenderImage{Image: e.Image, Rect: e.Rect}
			}

			signals := []driver.FenceHandle{fe.WaitEvent}
			if i == len(list)-1 {
				signals = append(signals, renderFinished)
			}
			if err := o.renderer.Render(target, rects, renderImages, signals, applyCC); err != nil {
				return err
			}
			slots[i] = gpuSlot{rd.Display, target, fe}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("compositor: GPU fallback render failed: %v", err)
		return
	}

	for _, s := range slots {
		ds := o.displays[s.display]
		layers := o.layers.Layers(s.display)
		if len(layers) == 0 {
			continue
		}
		layer := layers[0]
		o.controller.SetDisplayLayers(s.display, layers[:1])
		full := driver.Rect{X: 0, Y: 0, W: ds.info.Width, H: ds.info.Height}
		o.controller.SetLayerPrimaryConfig(layer, driver.ImageConfig{Width: ds.info.Width, Height: ds.info.Height, PixelFormat: ds.targets.PixelFormat})
		o.controller.SetLayerPrimaryPosition(layer, driver.TransformNormal, full, full)
		o.controller.SetLayerPrimaryAlpha(layer, driver.AlphaDisable, 1)
		o.controller.SetLayerImage(layer, s.target, s.fe.WaitID, s.fe.SignalID)
	}

	if checked, _, err := o.controller.CheckConfig(false); err != nil || !checked {
		return
	}

	o.releaseFences.OnGpuCompositedFrame(frameNo, renderFinished, releaseFences, callback)

	stamp, err := o.controller.ApplyConfig()
	if err != nil {
		return
	}
	o.pending.enqueue(stamp, frameNo)
}

// OnVsync drains the pending-apply FIFO up to and including the entry
// matching stamp, retiring the frame numbers it covers. A duplicate
// or foreign stamp is ignored.
func (o *Compositor) OnVsync(timestamp int64, stamp driver.ConfigStamp) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.havePresented && stamp == o.lastPresentedStamp {
		return
	}
	matched := o.pending.drain(stamp, func(frameNo uint64) {
		o.releaseFences.OnVsync(frameNo, timestamp)
	})
	if matched {
		o.lastPresentedStamp = stamp
		o.havePresented = true
	}
}
