// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// Rect is an axis-aligned integer rectangle, expressed as an origin
// plus extent. It is used both for an image's source sampling region
// and for a layer's destination position on a display.
type Rect struct {
	X, Y int
	W, H int
}

// Orientation is a rotation in multiples of 90 degrees, applied
// clockwise.
type Orientation int

const (
	Orientation0 Orientation = iota
	Orientation90
	Orientation180
	Orientation270
)

// Flip is a reflection applied before Orientation's rotation.
type Flip int

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
)

// Transform is the composition of an Orientation and a Flip into the
// eight-element dihedral group the display controller and renderer
// both expect: four rotations, and four rotations preceded by a
// horizontal reflection.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// ComposeTransform builds the Transform equivalent to applying flip
// followed by the rotation named by o. A vertical flip is folded into
// the canonical flip-then-rotate form as a horizontal flip plus a
// 180-degree rotation, since reflecting about the horizontal axis
// equals reflecting about the vertical axis and rotating by 180.
func ComposeTransform(o Orientation, f Flip) Transform {
	rot := int(o)
	if f == FlipVertical {
		rot = (rot + 2) % 4
	}
	if f == FlipNone {
		return Transform(rot)
	}
	return Transform(4 + rot)
}

// parts decomposes t back into its canonical flip-then-rotate form,
// rotation expressed in degrees.
func (t Transform) parts() (flip bool, degrees int) {
	n := int(t)
	if n >= 4 {
		return true, (n - 4) * 90
	}
	return false, n * 90
}

// Invert returns the transform that undoes t. Every element of the
// dihedral group is either a pure rotation, whose inverse rotates the
// other way, or a reflection, which is its own inverse.
func (t Transform) Invert() Transform {
	switch t {
	case TransformNormal:
		return TransformNormal
	case Transform90:
		return Transform270
	case Transform180:
		return Transform180
	case Transform270:
		return Transform90
	default:
		return t
	}
}

// OutDims returns the width and height of the coordinate space that
// results from applying t to a space of the given dimensions. A
// 90- or 270-degree rotation swaps width and height.
func (t Transform) OutDims(width, height int) (int, int) {
	_, degrees := t.parts()
	if degrees == 90 || degrees == 270 {
		return height, width
	}
	return width, height
}

// Apply maps r, a rectangle within a (width, height) coordinate
// space, through t, returning the corresponding rectangle in the
// transformed space (see OutDims for its dimensions).
func (t Transform) Apply(r Rect, width, height int) Rect {
	flip, degrees := t.parts()
	cw, ch := width, height
	cur := r
	if flip {
		cur = Rect{X: cw - (cur.X + cur.W), Y: cur.Y, W: cur.W, H: cur.H}
	}
	switch degrees {
	case 0:
	case 90:
		cur = Rect{X: cur.Y, Y: cw - (cur.X + cur.W), W: cur.H, H: cur.W}
		cw, ch = ch, cw
	case 180:
		cur = Rect{X: cw - (cur.X + cur.W), Y: ch - (cur.Y + cur.H), W: cur.W, H: cur.H}
	case 270:
		cur = Rect{X: ch - (cur.Y + cur.H), Y: cur.X, W: cur.H, H: cur.W}
		cw, ch = ch, cw
	}
	return cur
}
