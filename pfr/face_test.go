package pfr

import "testing"

func TestFaceGlyphAdvanceUnknownRune(t *testing.T) {
	gr, _ := minimalGlyphRange()
	f := NewFace(gr, map[rune]CharRecord{}, nil, nil)
	if _, ok := f.GlyphAdvance('Z'); ok {
		t.Errorf("expected no advance for a rune with no CharRecord")
	}
}

func TestFaceGlyphAdvanceKnownRune(t *testing.T) {
	gr, rec := minimalGlyphRange()
	f := NewFace(gr, map[rune]CharRecord{' ': rec}, nil, nil)
	adv, ok := f.GlyphAdvance(' ')
	if !ok {
		t.Fatalf("expected an advance for a mapped rune")
	}
	if got := adv.Ceil(); got != int(rec.SetWidth) {
		t.Errorf("advance = %d, want %d", got, rec.SetWidth)
	}
}

func TestFaceMetricsNonZeroHeight(t *testing.T) {
	font := &FontContext{OutlineResolution: 1024, MaxYOrus: 1024, Matrix: [4]int32{0x10000, 0, 0, 0x10000}}
	gr := GlyphRange{Full: make([]byte, 10), Font: font}
	f := NewFace(gr, nil, nil, &Options{Size: 12, DPI: 72})
	if f.Metrics().Height <= 0 {
		t.Errorf("expected a positive line height")
	}
}
