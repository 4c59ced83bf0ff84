// Command pfrdump decodes a single glyph from a raw PFR glyph-program
// byte dump and prints its outline (one line per contour command).
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/dirplayer/render/pfr"
	"github.com/dirplayer/render/pfr/diag"
)

var (
	glyphfile   = flag.String("glyphs", "", "filename of a raw PFR glyph-program section dump")
	offset      = flag.Uint64("offset", 0, "byte offset of the glyph's GPS record within -glyphs")
	size        = flag.Uint64("size", 0, "byte size of the glyph's GPS record")
	outlineRes  = flag.Int("outline-resolution", 2048, "font's outline resolution (em square)")
	setWidth    = flag.Uint64("set-width", 0, "glyph's set-width (advance) in orus")
	charCode    = flag.Uint64("char", 0, "character code, for display only")
)

func main() {
	flag.Parse()

	data, err := ioutil.ReadFile(*glyphfile)
	if err != nil {
		fmt.Printf("failed to load glyph dump from %s: %+v\n", *glyphfile, err)
		os.Exit(1)
	}

	font := &pfr.FontContext{
		OutlineResolution: int32(*outlineRes),
		MaxXOrus:          int32(*outlineRes),
		MaxYOrus:          int32(*outlineRes),
		Matrix:            [4]int32{0x10000, 0, 0, 0x10000},
	}
	gr := pfr.GlyphRange{
		Full:        data,
		SectionBase: 0,
		SectionSize: uint32(len(data)),
		Font:        font,
	}
	rec := pfr.CharRecord{
		CharCode:  uint16(*charCode),
		GPSOffset: uint32(*offset),
		GPSSize:   uint32(*size),
		SetWidth:  uint32(*setWidth),
	}

	out, err := pfr.ParseGlyph(gr, rec, nil, diag.NewStd(), 0)
	if err != nil {
		fmt.Printf("failed to parse glyph: %+v\n", err)
		os.Exit(1)
	}

	fmt.Printf("glyph %d: %d contours, set-width %d\n", rec.CharCode, len(out.Contours), out.SetWidth)
	for i, c := range out.Contours {
		fmt.Printf("  contour %d (%d commands):\n", i, len(c))
		for _, cmd := range c {
			switch cmd.Op {
			case pfr.OpMoveTo:
				fmt.Printf("    move %.2f,%.2f\n", cmd.X, cmd.Y)
			case pfr.OpLineTo:
				fmt.Printf("    line %.2f,%.2f\n", cmd.X, cmd.Y)
			case pfr.OpCurveTo:
				fmt.Printf("    curve %.2f,%.2f %.2f,%.2f -> %.2f,%.2f\n", cmd.CX1, cmd.CY1, cmd.CX2, cmd.CY2, cmd.X, cmd.Y)
			case pfr.OpClose:
				fmt.Printf("    close\n")
			}
		}
	}
}
