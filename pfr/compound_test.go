package pfr

import "testing"

// TestParseGlyphCompoundTwoComponents exercises the compound branch (§4.5,
// §8 scenario S8): a header byte whose outline-format bits select the
// compound path and whose low 6 bits give a component count of 2, with an
// empty extra-items block (header bit 6 set, zero-length) that must be
// skipped without affecting the component records that follow.
func TestParseGlyphCompoundTwoComponents(t *testing.T) {
	full := make([]byte, 40)

	// Compound glyph at offset 20: header 0xC2 = outline format 3 (>= 2,
	// compound), component count 2, extra-items flag set.
	full[20] = 0xC2
	// Extra-items block: 2-byte zero count (already zero from make).
	// Component 1: modulo-6 format byte 0x00 (scale 4096/4096, zero
	// per-axis offset), offset-format 0 with a 1-byte delta of 5.
	full[23] = 0x00
	full[24] = 5
	// Component 2: same shape, delta 5 again.
	full[25] = 0x00
	full[26] = 5
	// Sub-glyph bytes at offsets 15-19 and 10-14 are left zero: a minimal
	// simple glyph (outline format 0, no control points, no extra data).

	font := &FontContext{
		OutlineResolution: 1024,
		MaxXOrus:          1024,
		MaxYOrus:           1024,
		Matrix:            [4]int32{0x10000, 0, 0, 0x10000},
	}
	gr := GlyphRange{
		Section:     full[20:27],
		Full:        full,
		SectionBase: 0,
		SectionSize: uint32(len(full)),
		Font:        font,
	}
	rec := CharRecord{CharCode: 1, GPSOffset: 20, GPSSize: 7, SetWidth: 10}

	out, err := ParseGlyph(gr, rec, nil, nil, 0)
	if err != nil {
		t.Fatalf("ParseGlyph: %v", err)
	}
	if len(out.Contours) != 2 {
		t.Fatalf("got %d contours, want 2 (one per component)", len(out.Contours))
	}
	if out.SetWidth != 10 {
		t.Errorf("SetWidth = %d, want 10", out.SetWidth)
	}
}

func TestParseGlyphEmptyForSmallGPSSize(t *testing.T) {
	font := &FontContext{OutlineResolution: 1024, Matrix: [4]int32{0x10000, 0, 0, 0x10000}}
	gr := GlyphRange{Full: make([]byte, 10), Font: font}
	rec := CharRecord{CharCode: 32, GPSSize: 0, SetWidth: 7}

	out, err := ParseGlyph(gr, rec, nil, nil, 0)
	if err != nil {
		t.Fatalf("ParseGlyph: %v", err)
	}
	if len(out.Contours) != 0 {
		t.Errorf("expected empty outline for gps_size<=1, got %d contours", len(out.Contours))
	}
	if out.SetWidth != 7 {
		t.Errorf("SetWidth = %d, want 7", out.SetWidth)
	}
}

func TestCompoundRecursionDepthGuard(t *testing.T) {
	gr := GlyphRange{Full: make([]byte, 8), Font: &FontContext{OutlineResolution: 1024, Matrix: [4]int32{0x10000, 0, 0, 0x10000}}}
	rec := CharRecord{GPSOffset: 0, GPSSize: 2}
	out := &OutlineGlyph{}
	decodeCompoundGlyph(gr, newTransformContext(gr.Font, nil), 0x82, gr.Full, 1, rec, maxCompoundDepth, nil, out)
	if len(out.Contours) != 0 {
		t.Errorf("expected no contours past max recursion depth, got %d", len(out.Contours))
	}
}
