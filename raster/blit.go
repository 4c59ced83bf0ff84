package raster

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// SpriteState carries the per-sprite geometry a blit needs beyond the
// raw rects: its registration point, used as the pivot for rotation and
// skew (§3 "Ink parameter set").
type SpriteState struct {
	LocH, LocV float64
}

// BlitParams is the per-call "ink parameter set" (§3): constructed for
// one CopyPixels call, never retained past it.
type BlitParams struct {
	Blend           float64
	Ink             Ink
	Color           ColorRef
	BgColor         ColorRef
	Mask            *MatteMask
	IsTextRendering bool
	Rotation        float64 // degrees
	Skew            float64 // degrees
	Sprite          *SpriteState
	OriginalDstRect *Rect
}

// needsMatte reports whether a blit requires consulting a matte mask
// when none was supplied explicitly (§4.7). Inks 7/8/9/36 always mask
// through the matte. Ink 0 (Copy) only does when the source bitmap asks
// to have its background trimmed and this isn't a text blit — trimmed
// text is handled by the glyph atlas path, not by flood-filling a
// background out of a glyph bitmap.
func needsMatte(ink Ink, trimWhiteSpace, isTextRendering bool) bool {
	switch ink {
	case InkMatte, InkMask, InkNotGhost, InkBackgroundTransparent:
		return true
	case InkCopy:
		return !isTextRendering && trimWhiteSpace
	default:
		return false
	}
}

// resolvePaletteTable returns the 256-entry (or shorter) RGB table for a
// bitmap's palette reference, or nil if the bitmap isn't indexed.
func resolvePaletteTable(b *Bitmap, pm PaletteMap) []RGB {
	if b.BitDepth > 8 {
		return nil
	}
	return pm[b.Palette]
}

// CopyPixels blits src (within srcRect) into dst (within dstRect),
// applying flip, rotation, skew, scaling, matte/mask, colorization and
// the selected ink (§4.9).
func CopyPixels(dst *Bitmap, dstRect Rect, src *Bitmap, srcRect Rect, pm PaletteMap, params BlitParams) {
	// Step 1: normalize flip, compute absolute destination bounds.
	normDst, flipH, flipV := dstRect.Normalized()
	if normDst.Width() <= 0 || normDst.Height() <= 0 {
		return
	}
	normSrc, srcFlipH, srcFlipV := srcRect.Normalized()
	flipH = flipH != srcFlipH
	flipV = flipV != srcFlipV

	iterBounds := normDst
	centerX, centerY := float64(normDst.Left+normDst.Right)/2, float64(normDst.Top+normDst.Bottom)/2
	if params.Sprite != nil {
		centerX, centerY = params.Sprite.LocH, params.Sprite.LocV
	}

	rotating := math.Abs(params.Rotation) > 0.1
	skewing := math.Abs(params.Skew) > 0.1
	rad := params.Rotation * math.Pi / 180
	sinR, cosR := math.Sin(rad), math.Cos(rad)
	skewRad := params.Skew * math.Pi / 180
	tanSkew := math.Tan(skewRad)

	if rotating {
		// Step 2: expand iteration bounds to the rotated bbox of the
		// destination rect's corners about the registration point.
		iterBounds = rotatedBounds(normDst, centerX, centerY, sinR, cosR)
	}

	// Step 3: palette caches.
	srcPal := resolvePaletteTable(src, pm)
	dstPal := resolvePaletteTable(dst, pm)

	// Step 4: matte.
	var matte *MatteMask
	if params.Mask != nil {
		matte = params.Mask
	} else if needsMatte(params.Ink, src.TrimWhiteSpace, params.IsTextRendering) {
		matte = DeriveMatte(src, srcPal)
	}

	ip := InkParams{
		ForeColor: params.Color.Resolve(dstPal),
		BackColor: params.BgColor.Resolve(dstPal),
		Blend:     clamp01(params.Blend),
	}
	ip.BgKey = ip.BackColor
	foreSet := params.Color != ColorRef{}
	backSet := params.BgColor != ColorRef{}

	dstW := float64(normDst.Width())
	dstH := float64(normDst.Height())
	srcW := float64(normSrc.Width())
	srcH := float64(normSrc.Height())
	if dstW == 0 || dstH == 0 {
		return
	}

	for py := iterBounds.Top; py < iterBounds.Bottom; py++ {
		for px := iterBounds.Left; px < iterBounds.Right; px++ {
			dx, dy := float64(px), float64(py)

			// Step 5a: inverse rotation and skew about center.
			rx, ry := dx-centerX, dy-centerY
			if skewing {
				ry = -ry
				rx += ry * tanSkew
				ry = -ry
			}
			if rotating {
				// Inverse rotation: apply -angle.
				ux := rx*cosR + ry*sinR
				uy := -rx*sinR + ry*cosR
				rx, ry = ux, uy
			}
			ax, ay := rx+centerX, ry+centerY

			// Step 5b: reject outside the original (non-expanded) rect.
			if ax < float64(normDst.Left) || ax >= float64(normDst.Right) ||
				ay < float64(normDst.Top) || ay >= float64(normDst.Bottom) {
				continue
			}

			// Step 5c: map to source space.
			relX := (ax - float64(normDst.Left) + 0.5) * (srcW / dstW)
			relY := (ay - float64(normDst.Top) + 0.5) * (srcH / dstH)
			if flipH {
				relX = srcW - relX
			}
			if flipV {
				relY = srcH - relY
			}
			sxFix := fixed.I(normSrc.Left) + fixed.Int26_6(relX*64)
			syFix := fixed.I(normSrc.Top) + fixed.Int26_6(relY*64)

			// Step 5d: floor + clamp.
			sx := sxFix.Floor()
			sy := syFix.Floor()
			if sx < normSrc.Left {
				sx = normSrc.Left
			}
			if sx >= normSrc.Right {
				sx = normSrc.Right - 1
			}
			if sy < normSrc.Top {
				sy = normSrc.Top
			}
			if sy >= normSrc.Bottom {
				sy = normSrc.Bottom - 1
			}

			// Step 5e: consult mask/matte.
			if matte != nil && !matte.at(sx-normSrc.Left, sy-normSrc.Top) {
				continue
			}

			// Step 5f: sample.
			c, idx, a := src.GetPixel(sx, sy, srcPal)
			alpha := float64(a) / 255

			// Step 5g: colorize.
			c = colorize(c, idx, src.BitDepth, params.Ink, ip.ForeColor, ip.BackColor, foreSet, backSet)

			// Step 5h: evaluate ink.
			curDst, _, _ := dst.GetPixel(px, py, dstPal)
			embeddedAlpha := src.BitDepth == 32 && src.UseAlpha
			out := evalInk(params.Ink, c, curDst, alpha, ip, embeddedAlpha)

			// Step 5i: write via palette-cached setter.
			writeIndexed(dst, px, py, out, dstPal)
		}
	}
}

// rotatedBounds computes the axis-aligned bounding box of r's four
// corners rotated by (sinR, cosR) about (cx, cy).
func rotatedBounds(r Rect, cx, cy, sinR, cosR float64) Rect {
	corners := [4][2]float64{
		{float64(r.Left), float64(r.Top)},
		{float64(r.Right), float64(r.Top)},
		{float64(r.Left), float64(r.Bottom)},
		{float64(r.Right), float64(r.Bottom)},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := c[0]-cx, c[1]-cy
		rx := x*cosR - y*sinR
		ry := x*sinR + y*cosR
		rx += cx
		ry += cy
		minX, maxX = math.Min(minX, rx), math.Max(maxX, rx)
		minY, maxY = math.Min(minY, ry), math.Max(maxY, ry)
	}
	return Rect{
		Left: int(math.Floor(minX)), Top: int(math.Floor(minY)),
		Right: int(math.Ceil(maxX)), Bottom: int(math.Ceil(maxY)),
	}
}

// writeIndexed resolves an RGB color to the nearest palette index when
// writing to an indexed destination, else writes direct color.
func writeIndexed(dst *Bitmap, x, y int, c RGB, dstPal []RGB) {
	if dst.BitDepth > 8 || len(dstPal) == 0 {
		dst.SetPixel(x, y, c, 0, 0xff)
		return
	}
	dst.SetPixel(x, y, c, nearestPaletteIndex(c, dstPal), 0xff)
}

// nearestPaletteIndex does a linear O(palette) search for the closest
// entry by squared RGB distance; writeIndexed calls it once for every
// pixel written to an indexed destination.
func nearestPaletteIndex(c RGB, pal []RGB) uint8 {
	best := 0
	bestDist := -1
	for i, p := range pal {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
		if dist == 0 {
			break
		}
	}
	return uint8(best)
}
