// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements the small amount of vector/matrix
// math the compositor needs to represent a color conversion
// matrix (coefficients plus pre/post offsets) and RGBA colors.
package linear

// V3 is a 3-component vector of float32.
// CCData's pre- and post-offsets are represented as V3 values.
type V3 [3]float32

// AddV3 returns v + w.
func AddV3(v, w V3) (u V3) {
	for i := range u {
		u[i] = v[i] + w[i]
	}
	return
}

// SubV3 returns v - w.
func SubV3(v, w V3) (u V3) {
	for i := range u {
		u[i] = v[i] - w[i]
	}
	return
}

// ScaleV3 returns s ⋅ v.
func ScaleV3(s float32, v V3) (u V3) {
	for i := range u {
		u[i] = s * v[i]
	}
	return
}

// IsZero reports whether every component of v is zero.
func (v V3) IsZero() bool { return v == V3{} }

// V4 is a 4-component vector of float32.
// A layer's multiply color is represented as a V4 of RGBA values
// in the range [0, 1].
type V4 [4]float32

// ClampV4 returns v with every component restricted to [lo, hi].
func ClampV4(v V4, lo, hi float32) (u V4) {
	for i := range u {
		switch x := v[i]; {
		case x < lo:
			u[i] = lo
		case x > hi:
			u[i] = hi
		default:
			u[i] = x
		}
	}
	return
}

// DotV4 returns v ⋅ w.
func DotV4(v, w V4) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}
