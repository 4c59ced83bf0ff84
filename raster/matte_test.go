package raster

import "testing"

// TestDeriveMatteIndexed2x2 exercises S4: a 2x2 1-bit-ish indexed bitmap
// [0,0; 0,1] where only the bottom-right pixel differs from the
// background (corner) index; only that pixel should end up opaque.
func TestDeriveMatteIndexed2x2(t *testing.T) {
	b := &Bitmap{Width: 2, Height: 2, BitDepth: 8, Data: make([]byte, 4)}
	b.SetPixel(0, 0, RGB{}, 0, 0xff)
	b.SetPixel(1, 0, RGB{}, 0, 0xff)
	b.SetPixel(0, 1, RGB{}, 0, 0xff)
	b.SetPixel(1, 1, RGB{}, 1, 0xff)

	m := DeriveMatte(b, nil)
	want := [2][2]bool{{false, false}, {false, true}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := m.at(x, y); got != want[y][x] {
				t.Errorf("matte(%d,%d) = %v, want %v", x, y, got, want[y][x])
			}
		}
	}
}

// TestCopyPixelsTrimWhiteSpaceCullsBackground drives S4 through the real
// blit path rather than calling DeriveMatte directly: a Copy-ink source
// bitmap with TrimWhiteSpace set should have its background pixels
// matted out and left untouched in the destination, with only the
// pixel that differs from the corner background actually painted.
func TestCopyPixelsTrimWhiteSpaceCullsBackground(t *testing.T) {
	src := &Bitmap{Width: 2, Height: 2, BitDepth: 8, Data: make([]byte, 4), TrimWhiteSpace: true}
	src.SetPixel(0, 0, RGB{}, 0, 0xff)
	src.SetPixel(1, 0, RGB{}, 0, 0xff)
	src.SetPixel(0, 1, RGB{}, 0, 0xff)
	src.SetPixel(1, 1, RGB{}, 1, 0xff)
	pal := []RGB{{R: 10, G: 10, B: 10}, {R: 200, G: 200, B: 200}}
	pm := PaletteMap{0: pal}

	sentinel := RGB{R: 50, G: 50, B: 50}
	dst := &Bitmap{Width: 2, Height: 2, BitDepth: 32, UseAlpha: true, Data: make([]byte, 16)}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			dst.SetPixel(x, y, sentinel, 0, 0xff)
		}
	}

	CopyPixels(dst, Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}, src, Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}, pm,
		BlitParams{Ink: InkCopy, Blend: 1})

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c, _, _ := dst.GetPixel(x, y, nil)
			if x == 1 && y == 1 {
				if c != pal[1] {
					t.Errorf("dst(%d,%d) = %+v, want foreground %+v", x, y, c, pal[1])
				}
				continue
			}
			if c != sentinel {
				t.Errorf("dst(%d,%d) = %+v, want untouched sentinel %+v (background should be matted out)", x, y, c, sentinel)
			}
		}
	}
}

func TestDeriveMatte32BitEmbeddedAlphaIsAlphaChannel(t *testing.T) {
	b := &Bitmap{Width: 2, Height: 1, BitDepth: 32, UseAlpha: true, Data: make([]byte, 8)}
	b.SetPixel(0, 0, RGB{1, 2, 3}, 0, 0)
	b.SetPixel(1, 0, RGB{1, 2, 3}, 0, 255)

	m := DeriveMatte(b, nil)
	if m.at(0, 0) {
		t.Error("pixel with alpha=0 should be transparent")
	}
	if !m.at(1, 0) {
		t.Error("pixel with alpha=255 should be opaque")
	}
}
