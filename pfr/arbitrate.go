package pfr

// ParseGlyph decodes one glyph from gr per rec, running the header-style
// decoder and a simpler byte-command fallback, scoring both (C13), and
// returning the winner cleaned by the post-processing passes (C12).
//
// Glyphs with GPSSize <= 1 return an empty outline carrying only
// SetWidth: this represents characters with no drawable shape (space,
// control codes), and is not an error.
func ParseGlyph(gr GlyphRange, rec CharRecord, knownOffsets []uint32, log Logger, depth int) (*OutlineGlyph, error) {
	out := &OutlineGlyph{CharCode: rec.CharCode, SetWidth: int32(rec.SetWidth)}

	if rec.GPSSize <= 1 {
		return out, nil
	}
	if int(rec.GPSOffset) >= len(gr.Full) {
		return out, nil
	}
	end := rec.GPSOffset + rec.GPSSize
	if end > uint32(len(gr.Full)) {
		end = uint32(len(gr.Full))
	}
	data := gr.Full[rec.GPSOffset:end]
	if len(data) == 0 {
		return out, nil
	}

	headerByte := data[0]
	outlineFormat := headerByte >> 6 & 0x03
	componentCount := headerByte & 0x3f

	if outlineFormat >= 2 && componentCount != 0 {
		compoundOut := &OutlineGlyph{CharCode: rec.CharCode, SetWidth: int32(rec.SetWidth)}
		tc := newTransformContext(gr.Font, nil)
		decodeCompoundGlyph(gr, tc, headerByte, data, 1, rec, depth, log, compoundOut)
		postProcess(compoundOut)
		return compoundOut, nil
	}

	headerOut := runHeaderDecoder(gr, headerByte, data, rec)
	fallbackOut := runFallbackDecoder(gr, data, rec)

	headerScore := scoreOutline(headerOut, true)
	fallbackScore := scoreOutline(fallbackOut, false)

	var winner *OutlineGlyph
	if headerScore >= fallbackScore {
		winner = headerOut
	} else {
		winner = fallbackOut
	}

	if len(winner.Contours) == 0 && rec.GPSSize > 1 && log != nil {
		log.Printf("pfr: both parsers produced zero contours for glyph %d (gps_size=%d)", rec.CharCode, rec.GPSSize)
	}

	postProcess(winner)
	clampAndRescale(winner, gr.Font.OutlineResolution)
	return winner, nil
}

// runHeaderDecoder builds a TransformContext for this glyph and runs the
// full nibble-command decoder of §4.4.
func runHeaderDecoder(gr GlyphRange, headerByte uint8, data []byte, rec CharRecord) *OutlineGlyph {
	out := &OutlineGlyph{CharCode: rec.CharCode, SetWidth: int32(rec.SetWidth)}
	tc := newTransformContext(gr.Font, nil)
	decodeSimpleGlyph(headerByte, data, 1, tc, out)
	return out
}

// runFallbackDecoder implements the simpler byte-command decoder: it reads
// raw signed bytes as alternating MoveTo/LineTo deltas with no control
// grid, zone table, or hint stream, producing a best-effort outline when
// the header-style parser mis-detects the glyph's shape.
func runFallbackDecoder(gr GlyphRange, data []byte, rec CharRecord) *OutlineGlyph {
	out := &OutlineGlyph{CharCode: rec.CharCode, SetWidth: int32(rec.SetWidth)}
	var cur Contour
	x, y := int32(0), int32(0)
	started := false
	count := 0

	for i := 1; i+1 < len(data) && count < maxCommands; i += 2 {
		dx := int32(int8(data[i]))
		dy := int32(int8(data[i+1]))
		x += dx
		y += dy
		count++
		if !started {
			cur = append(cur, Command{Op: OpMoveTo, X: float32(x), Y: float32(y)})
			started = true
			continue
		}
		cur = append(cur, Command{Op: OpLineTo, X: float32(x), Y: float32(y)})
		if len(cur) > maxContourCommands {
			break
		}
	}
	if len(cur) > 0 {
		out.Contours = append(out.Contours, cur)
	}
	return out
}

// scoreOutline implements the §4.14 scoring formula.
func scoreOutline(g *OutlineGlyph, headerParser bool) int {
	score := 0
	points := 0
	curves := 0
	minX, maxX := float32(0), float32(0)
	minY, maxY := float32(0), float32(0)
	first := true
	for _, c := range g.Contours {
		score += 10
		for _, cmd := range c {
			points++
			if cmd.Op == OpCurveTo {
				curves++
			}
			if first {
				minX, maxX, minY, maxY = cmd.X, cmd.X, cmd.Y, cmd.Y
				first = false
			} else {
				if cmd.X < minX {
					minX = cmd.X
				}
				if cmd.X > maxX {
					maxX = cmd.X
				}
				if cmd.Y < minY {
					minY = cmd.Y
				}
				if cmd.Y > maxY {
					maxY = cmd.Y
				}
			}
		}
	}
	score += points
	score += 5 * curves
	if headerParser {
		score += 300
	}
	if maxX-minX > 10 {
		score += 20
	}
	if maxY-minY > 10 {
		score += 20
	}
	return score
}

// clampAndRescale clamps all coordinates to [-3*outlineResolution,
// +3*outlineResolution]; if the maximum absolute coordinate still exceeds
// 2x outline resolution after clamping, uniformly rescales the glyph to
// fit.
func clampAndRescale(g *OutlineGlyph, outlineResolution int32) {
	lo := float32(-3 * outlineResolution)
	hi := float32(3 * outlineResolution)

	maxAbs := float32(0)
	for _, c := range g.Contours {
		for i := range c {
			c[i].X = clampF(c[i].X, lo, hi)
			c[i].Y = clampF(c[i].Y, lo, hi)
			c[i].CX1 = clampF(c[i].CX1, lo, hi)
			c[i].CY1 = clampF(c[i].CY1, lo, hi)
			c[i].CX2 = clampF(c[i].CX2, lo, hi)
			c[i].CY2 = clampF(c[i].CY2, lo, hi)
			maxAbs = maxF(maxAbs, absF(c[i].X), absF(c[i].Y))
		}
	}

	limit := float32(2 * outlineResolution)
	if maxAbs > limit && maxAbs > 0 {
		scale := limit / maxAbs
		for _, c := range g.Contours {
			for i := range c {
				c[i].X *= scale
				c[i].Y *= scale
				c[i].CX1 *= scale
				c[i].CY1 *= scale
				c[i].CX2 *= scale
				c[i].CY2 *= scale
			}
		}
	}
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxF(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// newTransformContext derives a TransformContext for a glyph: transform
// flags (pass 1) and coordinate shift (pass 2). Zone tables are left
// empty here; buildGlyphZoneTables fills them from the glyph's control grid.
// bboxHint, if non-nil, overrides the default [0, MaxXOrus] x
// [0, MaxYOrus] projection rectangle used for the max-norm subroutine.
func newTransformContext(font *FontContext, bboxHint *[4]int32) *TransformContext {
	var flipX, flipY bool
	if font.Metrics != nil {
		flipX, flipY = font.Metrics.FlipX, font.Metrics.FlipY
	}
	xFlag, yFlag, fsx, fsy := deriveTransformFlags(font.Matrix, flipX, flipY)

	minX, minY, maxX, maxY := int32(0), int32(0), font.MaxXOrus, font.MaxYOrus
	if bboxHint != nil {
		minX, minY, maxX, maxY = bboxHint[0], bboxHint[1], bboxHint[2], bboxHint[3]
	}

	coordShift, scaleCounter, scaledMatrix := deriveCoordShift(font.Matrix, font.OutlineResolution, minX, minY, maxX, maxY)

	// Rounding bias is (1 << (coordShift - secondary_scale)) >> 1: the
	// secondary (max-norm) scale pass 2 derives shrinks or grows the
	// shift the bias needs relative to coordShift alone.
	var bias int32
	if shiftAmt := int(coordShift) - scaleCounter; shiftAmt > 0 {
		bias = int32(1) << uint(shiftAmt-1)
	}

	tc := &TransformContext{
		XFlag: xFlag, YFlag: yFlag,
		ScaledMatrix: scaledMatrix,
		CoordShift:   coordShift,
		ScaleCounter: scaleCounter,
		RoundingBias: bias,
		FontScaleX:   fsx,
		FontScaleY:   fsy,
		FontOffsetX:  bias,
		FontOffsetY:  bias,
	}
	return tc
}
