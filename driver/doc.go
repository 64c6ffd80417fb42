// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the interfaces and wire types through which
// the compositor core reaches its four external collaborators: the
// display controller (scanout hardware), the buffer allocator, the
// renderer (GPU composition) and the release-fence manager.
//
// None of these collaborators is implemented in this package — each
// is a wire protocol or a separate subsystem, and driver only states
// the shape the core requires of it. Client code supplies concrete
// implementations (e.g., a FIDL or IPC client for DisplayController)
// when constructing a compositor.Compositor.
package driver
