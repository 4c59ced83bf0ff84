package pfr

import "testing"

func TestMul16_16Identity(t *testing.T) {
	got := mul16_16(0x00010000, 0x00010000)
	if want := int64(0x00010000); got != want {
		t.Errorf("mul16_16(1.0, 1.0) = %#x, want %#x", got, want)
	}
}

func TestMul16_16Signs(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{0x00020000, 0x00010000, 0x00020000},   // 2.0 * 1.0 = 2.0
		{-0x00010000, 0x00010000, -0x00010000}, // -1.0 * 1.0 = -1.0
		{-0x00010000, -0x00010000, 0x00010000}, // -1.0 * -1.0 = 1.0
		{0, 0x00010000, 0},
	}
	for _, c := range cases {
		got := mul16_16(c.a, c.b)
		if got != c.want {
			t.Errorf("mul16_16(%#x, %#x) = %#x, want %#x", c.a, c.b, got, c.want)
		}
	}
}

func TestScaleMatrixElementRounding(t *testing.T) {
	// 0x180 >> 8 with bias 0x80 rounds to 2, not 1.
	got := scaleMatrixElement(0x180, 8, 1024)
	if got != 2 {
		t.Errorf("scaleMatrixElement(0x180, 8, 1024) = %d, want 2", got)
	}
}
