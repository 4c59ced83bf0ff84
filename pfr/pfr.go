// Package pfr decodes PFR1-format glyph outlines and bitmap glyphs: the
// bit/nibble-packed, table-driven scalable font format used to embed fonts
// in Director-format documents.
//
// The package has no file, network, or process dependency; callers hand it
// byte ranges plus a font context and receive back outline or bitmap glyphs.
package pfr

import "github.com/dirplayer/render/pfr/diag"

// Logger is the diagnostic sink ParseGlyph logs arbitration ambiguities
// through; see pfr/diag.
type Logger = diag.Logger

// FormatError reports input that is not shaped like PFR data.
// ParseBitmapGlyph returns it for empty or oversized bitmap glyph data;
// ParseGlyph never returns it.
type FormatError string

func (e FormatError) Error() string { return "pfr: invalid font data: " + string(e) }

// UnsupportedError reports a structurally valid input this decoder does not
// handle. Per-glyph decoding never returns this; it only ever emits a
// partial or empty OutlineGlyph, per the package's error handling policy.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "pfr: unsupported: " + string(e) }

// CharRecord names a single glyph within a font's glyph-program-section
// buffer.
type CharRecord struct {
	CharCode uint16
	GPSOffset uint32
	GPSSize   uint32
	SetWidth  uint32
}

// FontMetrics carries optional bounding-box and orientation hints a font
// may supply alongside its glyph data.
type FontMetrics struct {
	BBoxMinX, BBoxMinY, BBoxMaxX, BBoxMaxY int32
	FlipX, FlipY                           bool
	FamilyName                             string
}

// StrokeTables is an optional font-level stroke grid. The decoder does not
// read it: a glyph with no control grid of its own maps its points
// through the font scale and offset alone.
type StrokeTables struct {
	XOrus, YOrus []int16
}

// FontContext is immutable per font: everything a glyph decode needs beyond
// its own byte range.
type FontContext struct {
	OutlineResolution int32
	MaxXOrus, MaxYOrus int32
	StdVW, StdHW       int32
	Matrix             [4]int32 // [a, b, c, d]
	Metrics            *FontMetrics
	TargetPixelSize    int32 // 0 = unconfigured
	Stroke             *StrokeTables
}

// GlyphRange is the input to ParseGlyph: an opaque byte slice, an offset
// into the larger glyph-program-section buffer it was cut from, and any
// known sibling offsets (used to clamp a sub-glyph's byte range).
type GlyphRange struct {
	Section      []byte // the glyph-program-section buffer
	Full         []byte // full backing buffer; ParseGlyph reads glyph bytes from here
	SectionBase  uint32 // offset of Section within Full
	SectionSize  uint32
	KnownOffsets []uint32
	Font         *FontContext
}

// CommandOp identifies one drawing command within a Contour.
type CommandOp int

const (
	OpMoveTo CommandOp = iota
	OpLineTo
	OpCurveTo
	OpClose
)

// Command is one step of a Contour. CX1/CY1/CX2/CY2 are only meaningful
// for OpCurveTo.
type Command struct {
	Op                 CommandOp
	X, Y               float32
	CX1, CY1, CX2, CY2 float32
}

// Contour is an ordered sequence of commands. The first command is always
// OpMoveTo; OpClose, if present, is always last.
type Contour []Command

// OutlineGlyph is the decoded shape of one glyph.
type OutlineGlyph struct {
	CharCode uint16
	SetWidth int32
	Contours []Contour
}

// BitmapGlyph is a decoded bitmap glyph: already-rasterized pixels rather
// than an outline.
type BitmapGlyph struct {
	CharCode    uint16
	ImageFormat uint8 // 0 packed, 1 = 4-bit RLE, other = raw
	X, Y        int32
	W, H        uint32
	SetWidth    uint32
	Data        []byte
}
