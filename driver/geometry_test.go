// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import "testing"

func TestComposeTransform(t *testing.T) {
	cases := []struct {
		o    Orientation
		f    Flip
		want Transform
	}{
		{Orientation0, FlipNone, TransformNormal},
		{Orientation90, FlipNone, Transform90},
		{Orientation180, FlipNone, Transform180},
		{Orientation270, FlipNone, Transform270},
		{Orientation0, FlipHorizontal, TransformFlipped},
		{Orientation90, FlipHorizontal, TransformFlipped90},
		{Orientation0, FlipVertical, TransformFlipped180},
		{Orientation90, FlipVertical, TransformFlipped270},
	}
	for _, c := range cases {
		if got := ComposeTransform(c.o, c.f); got != c.want {
			t.Errorf("ComposeTransform(%v, %v):\nhave %v\nwant %v", c.o, c.f, got, c.want)
		}
	}
}

func TestTransformIdentity(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 2}
	if got := TransformNormal.Apply(r, 10, 6); got != r {
		t.Fatalf("TransformNormal.Apply:\nhave %v\nwant %v", got, r)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 2}
	w, h := 10, 6

	all := []Transform{
		TransformNormal, Transform90, Transform180, Transform270,
		TransformFlipped, TransformFlipped90, TransformFlipped180, TransformFlipped270,
	}
	for _, tr := range all {
		ow, oh := tr.OutDims(w, h)
		mid := tr.Apply(r, w, h)
		back := tr.Invert().Apply(mid, ow, oh)
		if back != r {
			t.Errorf("round trip through %v:\nhave %v\nwant %v", tr, back, r)
		}
	}
}

func TestTransformRot90Exact(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 2}
	want := Rect{X: 2, Y: 6, W: 2, H: 3}
	if got := Transform90.Apply(r, 10, 6); got != want {
		t.Fatalf("Transform90.Apply:\nhave %v\nwant %v", got, want)
	}
}

func TestTransformFlippedSelfInverse(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 2}
	w, h := 10, 6
	once := TransformFlipped.Apply(r, w, h)
	twice := TransformFlipped.Apply(once, w, h)
	if twice != r {
		t.Fatalf("TransformFlipped applied twice:\nhave %v\nwant %v", twice, r)
	}
}
