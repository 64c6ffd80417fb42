// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "github.com/onepiec1/fuchsia/linear"

// BlendMode is the compositing blend function requested for a layer,
// as expressed by the client's render data.
type BlendMode int

const (
	BlendSrc BlendMode = iota
	BlendSrcOver
)

// AlphaMode is the blend function as understood by the display
// controller wire protocol. The controller has no notion of
// source-over; src-over is approximated by enabling per-pixel alpha
// and disabling it for a plain src copy.
type AlphaMode int

const (
	AlphaDisable AlphaMode = iota
	AlphaPremultiplied
)

// AlphaModeFor maps a client-facing BlendMode to the AlphaMode the
// display controller accepts.
func AlphaModeFor(b BlendMode) AlphaMode {
	if b == BlendSrcOver {
		return AlphaPremultiplied
	}
	return AlphaDisable
}

// CCData is a color conversion matrix plus pre- and post-offsets,
// applied as: post + M*(pre + color). The zero value is the zero
// matrix, not identity; use Coefficients.I() to build an identity
// CCData.
type CCData struct {
	Coefficients linear.M3
	PreOffsets   linear.V3
	PostOffsets  linear.V3
}

// IsIdentity reports whether d performs no actual conversion.
func (d CCData) IsIdentity() bool {
	return d.Coefficients.IsIdentity() && d.PreOffsets.IsZero() && d.PostOffsets.IsZero()
}
