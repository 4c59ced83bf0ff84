package raster

import (
	"strings"

	"golang.org/x/image/font"
)

// GlyphAtlas supplies per-character bitmaps and advances for the PFR
// text path — a bitmap atlas rather than a native rasterizer (§4.12
// treats the native path as an out-of-scope collaborator).
type GlyphAtlas interface {
	Glyph(r rune) (bmp *Bitmap, advance int, ok bool)
	LineHeight() int
}

// TextStyle is one styled run's appearance.
type TextStyle struct {
	Color                   RGB
	Bold, Italic, Underline bool
}

// TextRun is a span of text sharing one style.
type TextRun struct {
	Text  string
	Style TextStyle
}

// Align selects a text line's horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// wrapWords splits text on explicit line breaks, then greedily packs
// words into lines no wider than maxWidth using per-glyph advances;
// spaces are advances only, never glyphs (§4.12).
func wrapWords(text string, maxWidth int, atlas GlyphAtlas) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		_, spaceAdvance, _ := atlas.Glyph(' ')
		var cur strings.Builder
		curWidth := 0
		for i, w := range words {
			ww := wordWidth(w, atlas)
			extra := 0
			if cur.Len() > 0 {
				extra = spaceAdvance
			}
			if cur.Len() > 0 && curWidth+extra+ww > maxWidth {
				lines = append(lines, cur.String())
				cur.Reset()
				curWidth = 0
				extra = 0
			}
			if cur.Len() > 0 {
				cur.WriteByte(' ')
				curWidth += extra
			}
			cur.WriteString(w)
			curWidth += ww
			if i == len(words)-1 {
				lines = append(lines, cur.String())
			}
		}
	}
	return lines
}

func wordWidth(w string, atlas GlyphAtlas) int {
	total := 0
	for _, r := range w {
		if _, adv, ok := atlas.Glyph(r); ok {
			total += adv
		}
	}
	return total
}

// lineOffset computes a line's horizontal start offset for the given
// alignment (§4.12).
func lineOffset(align Align, maxWidth, lineWidth int) int {
	switch align {
	case AlignCenter:
		return (maxWidth - lineWidth) / 2
	case AlignRight:
		return maxWidth - lineWidth
	default:
		return 0
	}
}

// DrawTextRun blits one styled run's glyphs from atlas starting at
// (x, y), the baseline's top-left. Bold is emulated by double-blitting
// with an x+1 offset; italic by shearing x += y/4; underline by filling
// a 1px rectangle at the run's bottom (§4.12).
func DrawTextRun(dst *Bitmap, pal []RGB, x, y int, run TextRun, atlas GlyphAtlas, blend float64) int {
	cx := x
	lh := atlas.LineHeight()
	for _, r := range run.Text {
		g, advance, ok := atlas.Glyph(r)
		if !ok {
			continue
		}
		if g != nil {
			blitGlyph(dst, pal, cx, y, g, run.Style, blend)
			if run.Style.Bold {
				blitGlyph(dst, pal, cx+1, y, g, run.Style, blend)
			}
		}
		cx += advance
	}
	if run.Style.Underline {
		FillRect(dst, pal, Rect{Left: x, Top: y + lh - 1, Right: cx, Bottom: y + lh}, run.Style.Color, blend)
	}
	return cx
}

// blitGlyph copies one atlas glyph bitmap's opaque pixels into dst,
// tinted to run's color, shearing columns by y/4 when italic.
func blitGlyph(dst *Bitmap, pal []RGB, x, y int, g *Bitmap, style TextStyle, blend float64) {
	matte := DeriveMatte(g, nil)
	for gy := 0; gy < g.Height; gy++ {
		shear := 0
		if style.Italic {
			shear = gy / 4
		}
		for gx := 0; gx < g.Width; gx++ {
			if !matte.at(gx, gy) {
				continue
			}
			setPx(dst, pal, x+gx+shear, y+gy, style.Color, blend)
		}
	}
}

// DrawWrappedText lays out text across maxWidth, aligning each line and
// drawing it with atlas, returning the total height consumed.
func DrawWrappedText(dst *Bitmap, pal []RGB, origin Point, maxWidth int, text string, style TextStyle, atlas GlyphAtlas, align Align, blend float64) int {
	lines := wrapWords(text, maxWidth, atlas)
	lh := atlas.LineHeight()
	y := int(origin.Y)
	for _, line := range lines {
		w := wordWidth(strings.ReplaceAll(line, " ", ""), atlas)
		xOff := lineOffset(align, maxWidth, w)
		DrawTextRun(dst, pal, int(origin.X)+xOff, y, TextRun{Text: line, Style: style}, atlas, blend)
		y += lh
	}
	return y - int(origin.Y)
}

// faceAdapter wraps a golang.org/x/image/font.Face as a GlyphAtlas,
// taking line height from the face's Metrics and advances from
// GlyphAdvance. Its Glyph returns no bitmap, so runs drawn through it
// advance the pen without blitting any glyph pixels.
type faceAdapter struct {
	face font.Face
}

func (f faceAdapter) LineHeight() int {
	m := f.face.Metrics()
	return m.Height.Ceil()
}

func (f faceAdapter) Glyph(r rune) (*Bitmap, int, bool) {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return nil, 0, false
	}
	return nil, adv.Ceil(), true
}
