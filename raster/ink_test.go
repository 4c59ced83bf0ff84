package raster

import "testing"

func TestEvalInkAddPin(t *testing.T) {
	params := InkParams{BgKey: RGB{0, 0, 0}, Blend: 1}
	got := evalInk(InkAddPin, RGB{100, 100, 100}, RGB{200, 200, 200}, 1, params, false)
	want := RGB{255, 255, 255}
	if got != want {
		t.Errorf("AddPin = %+v, want %+v", got, want)
	}
}

func TestEvalInkDarken(t *testing.T) {
	params := InkParams{BgKey: RGB{128, 255, 255}, Blend: 1}
	got := evalInk(InkDarken, RGB{255, 128, 0}, RGB{200, 200, 200}, 1, params, false)
	want := RGB{128, 128, 0}
	if got != want {
		t.Errorf("Darken = %+v, want %+v", got, want)
	}
}

func TestEvalInkAddPinKeepsDstWhenSrcEqualsBg(t *testing.T) {
	params := InkParams{BgKey: RGB{10, 10, 10}, Blend: 1}
	dst := RGB{200, 200, 200}
	got := evalInk(InkAddPin, RGB{10, 10, 10}, dst, 1, params, false)
	if got != dst {
		t.Errorf("AddPin with src==bg = %+v, want dst %+v unchanged", got, dst)
	}
}

func TestEvalInkCopyFullOpaqueShortcut(t *testing.T) {
	params := InkParams{Blend: 1}
	got := evalInk(InkCopy, RGB{9, 9, 9}, RGB{1, 1, 1}, 1, params, false)
	if got != (RGB{9, 9, 9}) {
		t.Errorf("Copy at full blend/alpha = %+v, want src", got)
	}
}
