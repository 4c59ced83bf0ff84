package raster

// InkParams bundles the state an ink evaluation needs beyond the raw
// source/destination pixels: the sprite's blend factor and the
// background-culling key used by several inks' "src == bg" shortcut.
type InkParams struct {
	ForeColor RGB
	BackColor RGB
	// BgKey is the color treated as "the stage background" for inks
	// that cull or skip against it. evalInk uses it as given;
	// CopyPixels and DefaultInkParams set it to BackColor.
	BgKey RGB
	// Blend is the sprite's blend factor in [0, 1] (the data model's
	// 0..100 field normalized by the caller before reaching evalInk).
	Blend float64
}

// DefaultInkParams derives fore/back colors from a palette the way an
// unset sprite does: index 255 as foreColor, index 0 as backColor
// (drawing.rs's default sprite ink params).
func DefaultInkParams(pal []RGB) InkParams {
	p := InkParams{ForeColor: RGB{0, 0, 0}, BackColor: RGB{255, 255, 255}, Blend: 1}
	if len(pal) > 0 {
		p.BackColor = pal[0]
	}
	if len(pal) > 255 {
		p.ForeColor = pal[255]
	} else if len(pal) > 0 {
		p.ForeColor = pal[len(pal)-1]
	}
	p.BgKey = p.BackColor
	return p
}

// evalInk combines a source pixel (already colorized) with the current
// destination pixel per ink (§4.8). srcAlpha is the source's own alpha
// in [0,1] (1 for formats without an alpha channel); embeddedAlpha marks
// 32-bit-with-alpha sources, which must honour srcAlpha even at full
// blend instead of taking Copy's full-override shortcut.
func evalInk(ink Ink, src, dst RGB, srcAlpha float64, params InkParams, embeddedAlpha bool) RGB {
	bg := params.BgKey
	alpha := srcAlpha * clamp01(params.Blend)

	switch ink {
	case InkCopy:
		if !embeddedAlpha && params.Blend >= 1 && srcAlpha >= 1 {
			return src
		}
		return alphaBlend(dst, src, alpha)

	case InkNotGhost:
		// Matte/mask culling already happened upstream; what remains is a
		// plain alpha blend.
		return alphaBlend(dst, src, alpha)

	case InkMatte:
		if srcAlpha <= 0.001 {
			return dst
		}
		return alphaBlend(dst, src, alpha)

	case InkMask:
		if srcAlpha <= 0.001 {
			return dst
		}
		return alphaBlend(dst, src, alpha)

	case InkAddPin:
		if src == bg {
			return dst
		}
		return alphaBlend(dst, RGB{
			addPin(dst.R, src.R),
			addPin(dst.G, src.G),
			addPin(dst.B, src.B),
		}, alpha)

	case InkSubPin:
		if src == bg {
			return dst
		}
		return alphaBlend(dst, RGB{
			subPin(dst.R, src.R),
			subPin(dst.G, src.G),
			subPin(dst.B, src.B),
		}, alpha)

	case InkBackgroundTransparent:
		// Pixels equal to bg are culled by the caller before reaching
		// here; what remains is a plain alpha blend.
		return alphaBlend(dst, src, alpha)

	case InkLighten:
		if src == bg {
			return dst
		}
		// Despite the name, this is a plain alpha blend, not max().
		return alphaBlend(dst, src, alpha)

	case InkDarken:
		darkened := RGB{
			mulByte(src.R, bg.R),
			mulByte(src.G, bg.G),
			mulByte(src.B, bg.B),
		}
		return alphaBlend(dst, darkened, alpha)

	default:
		return alphaBlend(dst, src, alpha)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func alphaBlend(dst, src RGB, alpha float64) RGB {
	return RGB{
		blendByte(dst.R, src.R, alpha),
		blendByte(dst.G, src.G, alpha),
		blendByte(dst.B, src.B, alpha),
	}
}

func blendByte(dst, src uint8, alpha float64) uint8 {
	v := float64(dst)*(1-alpha) + float64(src)*alpha
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func addPin(a, b uint8) uint8 {
	v := int(a) + int(b)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func subPin(a, b uint8) uint8 {
	v := int(a) - int(b)
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func mulByte(a, b uint8) uint8 {
	return uint8(int(a) * int(b) / 255)
}
