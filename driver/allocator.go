// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// BufferToken is a move-only handle to a buffer-collection token.
// Every DuplicateTokenSync/BindSharedCollection/Close send transfers
// ownership; the core must not retain a token after sending it.
type BufferToken interface{}

// ImportMode selects how the display side of a buffer-collection
// import is negotiated against the renderer side.
type ImportMode int

const (
	// RendererOnly closes the display-side token immediately; the
	// collection is unconditionally display-supported=no.
	RendererOnly ImportMode = iota
	// EnforceDisplayConstraints passes the display token unmodified, so
	// a display-side constraint conflict fails the whole allocation.
	EnforceDisplayConstraints
	// AttemptDisplayConstraints converts the display token into an
	// attach token with an independent failure domain, so the display
	// side may fail without aborting the renderer side.
	AttemptDisplayConstraints
)

// Usage classifies how a collection's buffers will be used, echoed to
// the allocator as part of participant constraints.
type Usage int

const (
	UsageNone Usage = iota
	UsageClientImage
	UsageRenderTarget
	UsageCPUWriteOften
)

// Constraints is the local, core-side participant's constraint set
// for a collection, used only to observe allocation status (the
// renderer and display set their own constraints independently).
type Constraints struct {
	MinBufferCountForCamping int
	Usage                    Usage
	Protected                bool
}

// BufferAllocator negotiates buffer-collection constraints across
// independent participants (renderer, display, core) and yields the
// resulting memory handles.
type BufferAllocator interface {
	AllocateCollection() (BufferToken, error)
	BindSharedCollection(token BufferToken) (CollectionId, error)
	DuplicateTokenSync(token BufferToken, n int) ([]BufferToken, error)
	AttachToken(token BufferToken) (BufferToken, error)
	SetConstraints(id CollectionId, c Constraints) error
	WaitForBuffersAllocated(id CollectionId) (ImageConfig, error)
	CheckBuffersAllocated(id CollectionId) (bool, error)
	Close(id CollectionId) error
}
