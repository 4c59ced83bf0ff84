package pfr

const maxCompoundDepth = 8

// componentRecord is one decoded compound-glyph component: its own
// sub-glyph byte range plus the per-axis scale/offset.
type componentRecord struct {
	glyphOffset uint32
	maxSize     uint32
	scaleX, scaleY   int32 // 1/4096 fixed-point
	offsetX, offsetY int32
}

// decodeCompoundGlyph runs C5: parses the component-count header, the
// optional extra-data block, and each component record, recursing into
// ParseGlyph for every sub-glyph and merging the results.
func decodeCompoundGlyph(gr GlyphRange, tc *TransformContext, headerByte uint8, data []byte, bodyStart int, rec CharRecord, depth int, log Logger, out *OutlineGlyph) {
	if depth >= maxCompoundDepth {
		return
	}

	componentCount := int(headerByte & 0x3f)
	nib := newNibbleReader(data[bodyStart:])

	if headerByte&0x40 != 0 {
		count := nib.alignedWord()
		for i := uint16(0); i < count; i++ {
			length := nib.alignedByte()
			for j := uint8(0); j < length; j++ {
				nib.alignedByte()
			}
		}
	}

	acc := rec.GPSOffset

	for i := 0; i < componentCount; i++ {
		comp, newAcc := decodeComponentRecord(nib, acc)
		acc = newAcc

		subRange, subRec, ok := subGlyphRange(gr, comp, rec)
		if !ok {
			continue
		}

		sub, err := ParseGlyph(subRange, subRec, gr.KnownOffsets, log, depth+1)
		if err != nil || sub == nil {
			continue
		}

		mergeComponent(out, sub, comp, tc)
	}
}

// decodeComponentRecord decodes one modulo-6 component record and the
// accompanying offset/size record, advancing acc per the per-format rule
// table in §4.5.
func decodeComponentRecord(nib *nibbleReader, acc uint32) (componentRecord, uint32) {
	b := nib.alignedByte()
	xFormat := b % 6
	yFormat := (b / 6) % 6
	offsetFormat := b / 36

	var comp componentRecord
	comp.scaleX, comp.offsetX = decodeAxisFormat(nib, xFormat)
	comp.scaleY, comp.offsetY = decodeAxisFormat(nib, yFormat)

	offset, size, newAcc := decodeOffsetFormat(nib, offsetFormat, acc)
	comp.glyphOffset = offset
	comp.maxSize = size
	return comp, newAcc
}

func decodeAxisFormat(nib *nibbleReader, format uint8) (scale, offset int32) {
	switch format {
	case 0:
		return 4096, 0
	case 1:
		return 4096, int32(int8(nib.alignedByte()))
	case 2:
		return 4096, int32(int16(nib.alignedWord()))
	case 3:
		s := int32(int16(nib.alignedWord()))
		return s, int32(int8(nib.alignedByte()))
	case 4:
		s := int32(int16(nib.alignedWord()))
		return s, int32(int16(nib.alignedWord()))
	default: // 5
		return 0, 0
	}
}

func decodeOffsetFormat(nib *nibbleReader, format uint8, acc uint32) (offset, size, newAcc uint32) {
	switch format {
	case 0:
		delta := uint32(nib.alignedByte())
		acc -= delta
		return acc, delta, acc
	case 1:
		delta := uint32(nib.alignedByte()) + 256
		acc -= delta
		return acc, delta, acc
	case 2:
		delta := uint32(nib.alignedWord())
		acc -= delta
		return acc, delta, acc
	case 3:
		b0, b1, b2 := nib.alignedByte(), nib.alignedByte(), nib.alignedByte()
		combined := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
		size = combined >> 15
		delta := combined & 0x7fff
		return acc - delta, size, acc
	case 4:
		b0, b1, b2 := nib.alignedByte(), nib.alignedByte(), nib.alignedByte()
		combined := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
		size = combined >> 15
		offset = combined & 0x7fff
		return offset, size, acc
	case 5:
		b0, b1, b2, b3 := nib.alignedByte(), nib.alignedByte(), nib.alignedByte(), nib.alignedByte()
		combined := uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
		size = (combined >> 23) & 0x1ff
		offset = combined & 0x7fffff
		return offset, size, acc
	case 6:
		sizeHi, sizeLo := nib.alignedByte(), nib.alignedByte()
		size = uint32(sizeHi)<<8 | uint32(sizeLo)
		o0, o1, o2 := nib.alignedByte(), nib.alignedByte(), nib.alignedByte()
		offset = uint32(o0)<<16 | uint32(o1)<<8 | uint32(o2)
		return offset, size, acc
	default: // >= 7
		return acc, 0, acc
	}
}

// subGlyphRange computes the absolute byte range for a sub-glyph given its
// component record, clamping max_size by remaining buffer length, remaining
// section length, and distance to the next known sibling offset.
func subGlyphRange(gr GlyphRange, comp componentRecord, parent CharRecord) (GlyphRange, CharRecord, bool) {
	absOffset := comp.glyphOffset
	remainingData := uint32(0)
	if int(absOffset) < len(gr.Full) {
		remainingData = uint32(len(gr.Full)) - absOffset
	} else {
		return GlyphRange{}, CharRecord{}, false
	}
	remainingSection := uint32(0)
	if absOffset >= gr.SectionBase && absOffset < gr.SectionBase+gr.SectionSize {
		remainingSection = gr.SectionBase + gr.SectionSize - absOffset
	}
	maxSize := comp.maxSize
	if remainingData < maxSize {
		maxSize = remainingData
	}
	if remainingSection > 0 && remainingSection < maxSize {
		maxSize = remainingSection
	}
	for _, sib := range gr.KnownOffsets {
		if sib > absOffset {
			dist := sib - absOffset
			if dist < maxSize {
				maxSize = dist
			}
		}
	}
	if maxSize == 0 {
		return GlyphRange{}, CharRecord{}, false
	}

	end := absOffset + maxSize
	if end > uint32(len(gr.Full)) {
		end = uint32(len(gr.Full))
	}

	subRange := GlyphRange{
		Section:      gr.Full[absOffset:end],
		Full:         gr.Full,
		SectionBase:  gr.SectionBase,
		SectionSize:  gr.SectionSize,
		KnownOffsets: gr.KnownOffsets,
		Font:         gr.Font,
	}
	subRec := CharRecord{
		CharCode:  parent.CharCode,
		GPSOffset: absOffset,
		GPSSize:   maxSize,
		SetWidth:  parent.SetWidth,
	}
	return subRange, subRec, true
}

// mergeComponent folds a decoded sub-glyph into the compound outline,
// branching explicitly on whether the component's scale is identity
// (both axes 4096) per §4.5 — there is no uniform merge path.
func mergeComponent(out *OutlineGlyph, sub *OutlineGlyph, comp componentRecord, tc *TransformContext) {
	identity := comp.scaleX == 4096 && comp.scaleY == 4096

	var dx, dy float32
	if identity {
		// Resolve the orus offset into destination-pixel space via
		// font_scale * orus_offset / 2^coord_shift with the rounding bias
		// folded in; omitting the bias drifts components by ~1px.
		var bias int64
		if tc.CoordShift > 0 {
			bias = int64(1) << (tc.CoordShift - 1)
		}
		px := (int64(tc.FontScaleX)*int64(comp.offsetX) + bias) >> tc.CoordShift
		py := (int64(tc.FontScaleY)*int64(comp.offsetY) + bias) >> tc.CoordShift
		dx = float32(px)
		dy = float32(py)
	} else {
		// Non-identity scale: the component's scale is not applied; the
		// sub-glyph is decoded with the parent font's own transform, and
		// its points are translated by the raw orus offset, with no
		// conversion to pixel space and no first-point correction.
		dx = float32(comp.offsetX)
		dy = float32(comp.offsetY)
	}

	for _, c := range sub.Contours {
		nc := make(Contour, len(c))
		for i, cmd := range c {
			nc[i] = Command{
				Op: cmd.Op,
				X:  cmd.X + dx, Y: cmd.Y + dy,
				CX1: cmd.CX1 + dx, CY1: cmd.CY1 + dy,
				CX2: cmd.CX2 + dx, CY2: cmd.CY2 + dy,
			}
		}
		out.Contours = append(out.Contours, nc)
	}
}
