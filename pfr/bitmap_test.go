package pfr

import (
	"reflect"
	"testing"
)

func TestDecodeRLE4(t *testing.T) {
	got := decodeRLE4([]byte{0x41, 0x30}, 7, 1)
	want := []byte{0b11110000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeRLE4 = %08b, want %08b", got[0], want[0])
	}
}

func TestParseBitmapGlyphRejectsOversize(t *testing.T) {
	data := []byte{
		0b00_00_00_00, // image=packed, escapement=1B, size=1B, position=1B
		0, 0, // position x, y
		0xff, 0xff, // size w=255 h=255 -> 65025 bits, within bound (below 1e6)
		0,
	}
	if _, err := ParseBitmapGlyph(data, CharRecord{}); err != nil {
		t.Fatalf("unexpected error for in-bound size: %v", err)
	}

	big := []byte{
		0b00_00_10_00, // size format = 2 (3 bytes) so w,h can exceed bound
		0, 0,
		0xff, 0xff, 0xff, // w = 0xffffff
		0xff, 0xff, 0xff, // h = 0xffffff
		0,
	}
	if _, err := ParseBitmapGlyph(big, CharRecord{}); err == nil {
		t.Errorf("expected error for oversized bitmap glyph")
	}
}
