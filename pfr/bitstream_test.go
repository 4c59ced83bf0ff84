package pfr

import "testing"

func TestNibbleReaderToggleFirst(t *testing.T) {
	r := newNibbleReader([]byte{0xAB, 0xCD})
	want := []uint8{0xA, 0xB, 0xC, 0xD}
	for i, w := range want {
		if got := r.nibble(); got != w {
			t.Errorf("read %d: got %#x, want %#x", i, got, w)
		}
	}
}

func TestNibbleReaderAlignedByte(t *testing.T) {
	r := newNibbleReader([]byte{0x12, 0x34, 0x56})
	if got := r.alignedByte(); got != 0x12 {
		t.Fatalf("aligned read: got %#x, want 0x12", got)
	}
	r.nibble() // consume high nibble of 0x34, now unaligned
	if got := r.alignedByte(); got != 0x45 {
		t.Errorf("cross-nibble read: got %#x, want 0x45", got)
	}
}

func TestHintStreamReaderReadsBackwards(t *testing.T) {
	r := newHintStreamReader([]byte{0x12, 0x34})
	want := []uint8{0x3, 0x4}
	for i, w := range want {
		if got := r.nibble(); got != w {
			t.Errorf("read %d: got %#x, want %#x", i, got, w)
		}
	}
}
