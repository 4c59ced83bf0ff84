// Command compose demonstrates the two halves of this module working
// together: a hand-authored glyph outline (standing in for a decoded
// PFR glyph) is scan-converted into a source sprite bitmap, then
// composited onto a background canvas with the raster package's ink
// evaluator, and the result is written out as a PNG.
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/dirplayer/render/pfr"
	"github.com/dirplayer/render/raster"
)

// sampleGlyph stands in for the output of pfr.ParseGlyph: a simple
// triangle contour in destination pixel space, the shape a caller
// would get back from decoding one PFR glyph.
func sampleGlyph() *pfr.OutlineGlyph {
	return &pfr.OutlineGlyph{
		CharCode: 'A',
		SetWidth: 64,
		Contours: []pfr.Contour{
			{
				{Op: pfr.OpMoveTo, X: 8, Y: 56},
				{Op: pfr.OpLineTo, X: 32, Y: 8},
				{Op: pfr.OpLineTo, X: 56, Y: 56},
				{Op: pfr.OpClose},
			},
		},
	}
}

func main() {
	const w, h = 64, 64

	glyph := sampleGlyph()
	sprite := &raster.Bitmap{Width: w, Height: h, BitDepth: 32, UseAlpha: true, Data: make([]byte, w*h*4)}

	for _, contour := range glyph.Contours {
		if len(contour) == 0 {
			continue
		}
		start := contour[0]
		var segs []raster.VectorSegment
		for _, cmd := range contour[1:] {
			switch cmd.Op {
			case pfr.OpLineTo:
				segs = append(segs, raster.VectorSegment{X: float64(cmd.X), Y: float64(cmd.Y)})
			case pfr.OpCurveTo:
				segs = append(segs, raster.VectorSegment{
					Cubic: true,
					C1:    raster.Point{X: float64(cmd.CX1), Y: float64(cmd.CY1)},
					C2:    raster.Point{X: float64(cmd.CX2), Y: float64(cmd.CY2)},
					X:     float64(cmd.X), Y: float64(cmd.Y),
				})
			}
		}
		raster.DrawVectorShape(sprite, nil,
			raster.Point{X: float64(start.X), Y: float64(start.Y)}, segs, true,
			raster.RGB{R: 220, G: 40, B: 40}, 1, 1)
	}

	bg := &raster.Bitmap{Width: w, Height: h, BitDepth: 32, UseAlpha: true, Data: make([]byte, w*h*4)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bg.SetPixel(x, y, raster.RGB{R: 30, G: 30, B: 60}, 0, 0xff)
		}
	}

	raster.CopyPixels(bg,
		raster.Rect{Left: 0, Top: 0, Right: w, Bottom: h},
		sprite,
		raster.Rect{Left: 0, Top: 0, Right: w, Bottom: h},
		nil,
		raster.BlitParams{Ink: raster.InkCopy, Blend: 1})

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _, a := bg.GetPixel(x, y, nil)
			img.Set(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: a})
		}
	}

	f, err := os.Create("compose_out.png")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()
	out := bufio.NewWriter(f)
	if err := png.Encode(out, img); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := out.Flush(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("wrote compose_out.png")
}
