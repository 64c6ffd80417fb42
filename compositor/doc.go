// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package compositor implements the per-frame display compositor
// core: it arbitrates between direct scanout (handing client buffers
// straight to display hardware) and GPU composition (rendering into a
// back-buffer that is itself scanned out), tracks buffer-collection
// negotiation state, fence-based frame lifetime, and the
// color-conversion matrix staged on the display.
//
// The core never speaks to hardware directly. It drives the four
// collaborators described by package driver: a DisplayController, a
// BufferAllocator, a Renderer and a ReleaseFenceManager. Tests in this
// package use hand-written fakes of those interfaces.
package compositor
