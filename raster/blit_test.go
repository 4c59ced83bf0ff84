package raster

import "testing"

// TestCopyPixelsFlipIsHorizontalMirror exercises S7: copying a 4x4
// bitmap into a normal dst rect versus a dst rect whose left/right are
// swapped (a horizontal flip) should produce mirrored output.
func TestCopyPixelsFlipIsHorizontalMirror(t *testing.T) {
	src := &Bitmap{Width: 4, Height: 4, BitDepth: 32, UseAlpha: false, Data: make([]byte, 4*4*4)}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			src.SetPixel(x, y, RGB{uint8(x * 60), uint8(y * 60), 0}, 0, 0xff)
		}
	}
	srcRect := Rect{Left: 0, Top: 0, Right: 4, Bottom: 4}

	normal := &Bitmap{Width: 4, Height: 4, BitDepth: 32, Data: make([]byte, 4*4*4)}
	CopyPixels(normal, Rect{Left: 0, Top: 0, Right: 4, Bottom: 4}, src, srcRect, nil, BlitParams{Ink: InkCopy, Blend: 1})

	flipped := &Bitmap{Width: 4, Height: 4, BitDepth: 32, Data: make([]byte, 4*4*4)}
	CopyPixels(flipped, Rect{Left: 4, Top: 0, Right: 0, Bottom: 4}, src, srcRect, nil, BlitParams{Ink: InkCopy, Blend: 1})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			a, _, _ := normal.GetPixel(x, y, nil)
			b, _, _ := flipped.GetPixel(3-x, y, nil)
			if a != b {
				t.Errorf("pixel (%d,%d) normal=%v vs mirrored (%d,%d)=%v", x, y, a, 3-x, y, b)
			}
		}
	}
}
