package pfr

import "testing"

func minimalGlyphRange() (GlyphRange, CharRecord) {
	font := &FontContext{OutlineResolution: 1024, Matrix: [4]int32{0x10000, 0, 0, 0x10000}}
	gr := GlyphRange{Full: make([]byte, 10), Font: font}
	rec := CharRecord{CharCode: 32, GPSSize: 0, SetWidth: 7}
	return gr, rec
}

func TestGlyphCacheHitsSameCharCode(t *testing.T) {
	gr, rec := minimalGlyphRange()
	gc := NewGlyphCache(gr, nil, nil, map[uint16]CharRecord{32: rec})

	first, err := gc.Glyph(32)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	second, err := gc.Glyph(32)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	if first != second {
		t.Errorf("Glyph returned a different *OutlineGlyph on the second call, want the cached pointer")
	}
}

func TestGlyphCacheUnknownCharCode(t *testing.T) {
	gr, _ := minimalGlyphRange()
	gc := NewGlyphCache(gr, nil, nil, map[uint16]CharRecord{})
	if _, err := gc.Glyph(65); err == nil {
		t.Errorf("expected an error for a character code with no record")
	}
}

func TestGlyphCacheInvalidateForcesRedecode(t *testing.T) {
	gr, rec := minimalGlyphRange()
	gc := NewGlyphCache(gr, nil, nil, map[uint16]CharRecord{32: rec})

	first, err := gc.Glyph(32)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	gc.Invalidate()
	second, err := gc.Glyph(32)
	if err != nil {
		t.Fatalf("Glyph: %v", err)
	}
	if first == second {
		t.Errorf("Glyph returned the same pointer after Invalidate, want a fresh decode")
	}
}
