package pfr

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dirplayer/render/raster"
)

// Options are optional arguments to NewFace, mirroring the shape of a
// TrueType-style font.Face constructor but scoped to what a PFR glyph
// range needs: no hinting bytecode, just a scale. Glyph masks are not
// cached; Glyph rasterizes the outline on every call.
type Options struct {
	// Size is the font size in points. Zero means 12.
	Size float64
	// DPI is the screen resolution. Zero means 72.
	DPI float64
	// SubPixelsX/Y quantize the glyph's sub-pixel dot position to 1/q
	// of a pixel before it is truncated to the mask's integer origin.
	// Zero means 4 (X) / 1 (Y).
	SubPixelsX, SubPixelsY int
	Hinting                font.Hinting
}

func (o *Options) size() float64 {
	if o != nil && o.Size > 0 {
		return o.Size
	}
	return 12
}

func (o *Options) dpi() float64 {
	if o != nil && o.DPI > 0 {
		return o.DPI
	}
	return 72
}

// subPixels returns the bias/mask pair that quantizes a dot position
// down to 1/q of a pixel, the same trick truetype/face.go used to keep
// the glyph cache from needing one entry per sub-pixel position.
func (o *Options) subPixels(q int) (bias, mask fixed.Int26_6) {
	return 32 / fixed.Int26_6(q), -64 / fixed.Int26_6(q)
}

const nCacheEntries = 256

type faceCacheEntry struct {
	valid bool
	rec   rune
	mask  *image.Alpha
	dx    int
}

// Face implements golang.org/x/image/font.Face over a PFR glyph range,
// returning decoded-and-rasterized glyph masks instead of running a
// TrueType bytecode rasterizer.
type Face struct {
	gr      GlyphRange
	chars   map[rune]CharRecord
	log     Logger
	scale   fixed.Int26_6
	subBX   fixed.Int26_6
	subMX   fixed.Int26_6
	subBY   fixed.Int26_6
	subMY   fixed.Int26_6
	cache   [nCacheEntries]faceCacheEntry
}

// NewFace builds a Face over gr, resolving runes to glyphs through
// chars (a character-code-to-CharRecord table; this format has no
// built-in cmap, so callers supply one alongside the glyph range).
func NewFace(gr GlyphRange, chars map[rune]CharRecord, log Logger, opts *Options) *Face {
	scale := fixed.Int26_6(0.5 + opts.size()*opts.dpi()*64/72)
	subBX, subMX := opts.subPixels(nz(opts, true))
	subBY, subMY := opts.subPixels(nz(opts, false))
	return &Face{gr: gr, chars: chars, log: log, scale: scale, subBX: subBX, subMX: subMX, subBY: subBY, subMY: subMY}
}

func nz(o *Options, x bool) int {
	if o == nil {
		if x {
			return 4
		}
		return 1
	}
	if x {
		if o.SubPixelsX > 0 {
			return o.SubPixelsX
		}
		return 4
	}
	if o.SubPixelsY > 0 {
		return o.SubPixelsY
	}
	return 1
}

func (f *Face) Close() error { return nil }

func (f *Face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (f *Face) Metrics() font.Metrics {
	var m font.Metrics
	res := f.gr.Font.OutlineResolution
	if res == 0 {
		res = 1
	}
	px := int(f.scale>>6) * int(f.gr.Font.MaxYOrus) / int(res)
	m.Height = fixed.I(px)
	m.Ascent = fixed.I(px * 4 / 5)
	m.Descent = fixed.I(px / 5)
	return m
}

func (f *Face) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	rec, ok := f.chars[r]
	if !ok {
		return 0, false
	}
	return fixed.I(int(rec.SetWidth)), true
}

func (f *Face) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	adv, ok := f.GlyphAdvance(r)
	if !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	return fixed.Rectangle26_6{}, adv, true
}

// Glyph satisfies font.Face: decodes the PFR outline for r (through the
// normal arbitration path), rasterizes it to an alpha mask via the
// raster package's polygon fill, and returns the mask positioned at dot.
func (f *Face) Glyph(dot fixed.Point26_6, r rune) (newDot fixed.Point26_6, dr image.Rectangle, mask image.Image, maskp image.Point, ok bool) {
	rec, known := f.chars[r]
	if !known {
		return fixed.Point26_6{}, image.Rectangle{}, nil, image.Point{}, false
	}

	dotX := (dot.X + f.subBX) & f.subMX
	dotY := (dot.Y + f.subBY) & f.subMY
	ix, iy := int(dotX>>6), int(dotY>>6)

	m, w, h, e := f.rasterize(rec)
	if e != nil {
		return fixed.Point26_6{}, image.Rectangle{}, nil, image.Point{}, false
	}

	newDot = fixed.Point26_6{X: dot.X + fixed.I(int(rec.SetWidth)), Y: dot.Y}
	dr = image.Rect(ix, iy, ix+w, iy+h)
	return newDot, dr, m, image.Point{}, true
}

func (f *Face) rasterize(rec CharRecord) (*image.Alpha, int, int, error) {
	out, err := ParseGlyph(f.gr, rec, nil, f.log, 0)
	if err != nil {
		return nil, 0, 0, err
	}

	minX, minY, maxX, maxY := contourBounds(out)
	w := int(maxX-minX) + 1
	h := int(maxY-minY) + 1
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 1, 1)), 1, 1, nil
	}

	// A 32-bit alpha-channel bitmap, not an indexed one: setPx's blend
	// path resolves indexed writes through the palette cache, which
	// would quantize every fill to palette index 0 with a nil palette.
	// Filling fully opaque white and reading the alpha channel back
	// gives per-pixel coverage directly.
	bmp := &raster.Bitmap{Width: w, Height: h, BitDepth: 32, UseAlpha: true, Data: make([]byte, w*h*4)}
	for _, c := range out.Contours {
		if len(c) == 0 {
			continue
		}
		start := raster.Point{X: float64(c[0].X - minX), Y: float64(c[0].Y - minY)}
		var segs []raster.VectorSegment
		for _, cmd := range c[1:] {
			switch cmd.Op {
			case OpLineTo, OpMoveTo:
				segs = append(segs, raster.VectorSegment{X: float64(cmd.X - minX), Y: float64(cmd.Y - minY)})
			case OpCurveTo:
				segs = append(segs, raster.VectorSegment{
					Cubic: true,
					C1:    raster.Point{X: float64(cmd.CX1 - minX), Y: float64(cmd.CY1 - minY)},
					C2:    raster.Point{X: float64(cmd.CX2 - minX), Y: float64(cmd.CY2 - minY)},
					X:     float64(cmd.X - minX), Y: float64(cmd.Y - minY),
				})
			}
		}
		raster.DrawVectorShape(bmp, nil, start, segs, true, raster.RGB{R: 255, G: 255, B: 255}, 1, 1)
	}

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, a := bmp.GetPixel(x, y, nil)
			alpha.SetAlpha(x, y, color.Alpha{A: a})
		}
	}
	return alpha, w, h, nil
}

func contourBounds(g *OutlineGlyph) (minX, minY, maxX, maxY float32) {
	first := true
	for _, c := range g.Contours {
		for _, cmd := range c {
			if first {
				minX, maxX, minY, maxY = cmd.X, cmd.X, cmd.Y, cmd.Y
				first = false
				continue
			}
			if cmd.X < minX {
				minX = cmd.X
			}
			if cmd.X > maxX {
				maxX = cmd.X
			}
			if cmd.Y < minY {
				minY = cmd.Y
			}
			if cmd.Y > maxY {
				maxY = cmd.Y
			}
		}
	}
	return
}
