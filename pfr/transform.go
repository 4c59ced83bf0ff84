package pfr

// transform flag values, used for both axes.
const (
	flagIdentity     = 0
	flagNegate       = 1
	flagSwap         = 2
	flagNegatedSwap  = 3
	flagGeneralMatrix = 4
)

// zoneEntry is one entry of a ZoneTable: orus at or below upperBound map
// through (offset + orus*scalar) >> coordShift.
type zoneEntry struct {
	upperBound int32
	scalar     int32
	offset     int32
}

// zoneTable is a per-axis piecewise-linear orus-to-pixel map built from a
// glyph's control grid. The last entry's upperBound is the sentinel
// math.MaxInt16.
type zoneTable []zoneEntry

const zoneSentinel = 1<<15 - 1

// lookup finds the smallest zone whose upperBound is >= coord (linear scan,
// grids are small) and applies its scalar/offset; falls back to a plain
// scale/offset pass when there are no zones at all.
func (zt zoneTable) lookup(coord int32, coordShift uint, fallbackScale, fallbackOffset int32) int32 {
	if len(zt) == 0 {
		return (fallbackOffset + coord*fallbackScale) >> coordShift
	}
	for _, z := range zt {
		if coord <= z.upperBound {
			return (z.offset + coord*z.scalar) >> coordShift
		}
	}
	last := zt[len(zt)-1]
	return (last.offset + coord*last.scalar) >> coordShift
}

// buildZoneTable derives a zone table from a sorted control sequence and
// its corresponding scaled values. Adjacent zones with identical
// (scalar, offset) are merged; the final entry's upperBound is replaced
// with the sentinel.
func buildZoneTable(controls []int32, scalars, offsets []int32) zoneTable {
	if len(controls) == 0 {
		return nil
	}
	zt := make(zoneTable, 0, len(controls))
	for i, c := range controls {
		e := zoneEntry{upperBound: c, scalar: scalars[i], offset: offsets[i]}
		if n := len(zt); n > 0 && zt[n-1].scalar == e.scalar && zt[n-1].offset == e.offset {
			zt[n-1].upperBound = e.upperBound
			continue
		}
		zt = append(zt, e)
	}
	zt[len(zt)-1].upperBound = zoneSentinel
	return zt
}

// TransformContext holds the derived mapping from orus to destination
// pixels for one glyph decode: transform flags, the scaled font matrix, the
// coordinate shift, rounding bias, and per-axis zone tables.
type TransformContext struct {
	XFlag, YFlag int
	ScaledMatrix [4]int32 // a, b, c, d after pass 2 scaling
	CoordShift   uint
	ScaleCounter int
	RoundingBias int32
	FontOffsetX, FontOffsetY int32
	FontScaleX, FontScaleY   int32

	XZones, YZones zoneTable
}

// deriveTransformFlags runs pass 1 of §4.3: examine the font matrix entry
// by entry and classify each axis.
func deriveTransformFlags(matrix [4]int32, flipX, flipY bool) (xFlag, yFlag int, fontScaleX, fontScaleY int32) {
	a, b, c, d := matrix[0], matrix[1], matrix[2], matrix[3]

	switch {
	case b != 0 && a == 0:
		fontScaleY = absInt32(b)
		if b > 0 {
			xFlag = 2
		} else {
			xFlag = 3
		}
	case b == 0:
		fontScaleX = absInt32(a)
		if a >= 0 {
			xFlag = 0
		} else {
			xFlag = 1
		}
	default:
		xFlag = flagGeneralMatrix
	}

	switch {
	case c != 0 && d == 0:
		fontScaleX = absInt32(c)
		if c > 0 {
			yFlag = 2
		} else {
			yFlag = 3
		}
	case c == 0:
		fontScaleY = absInt32(d)
		if d >= 0 {
			yFlag = 0
		} else {
			yFlag = 1
		}
	default:
		yFlag = flagGeneralMatrix
	}

	if flipX && xFlag < flagGeneralMatrix {
		xFlag = flipFlag(xFlag)
	}
	if flipY && yFlag < flagGeneralMatrix {
		yFlag = flipFlag(yFlag)
	}
	return
}

// flipFlag toggles between {0,2} and {1,3}, the two parity classes a flip
// flag can land in.
func flipFlag(f int) int {
	switch f {
	case 0:
		return 2
	case 2:
		return 0
	case 1:
		return 3
	case 3:
		return 1
	}
	return f
}

// maxNormRect walks the four edges of a rectangle, accumulating
// projections along the (a,c) and (b,d) column vectors of the scaled
// matrix, and returns the extreme absolute projection. Edges of length
// zero are skipped; ties break by absolute value.
func maxNormRect(minX, minY, maxX, maxY int32, a, b, c, d int64) int64 {
	corners := [4][2]int32{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}
	var maxProj int64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		dx := corners[j][0] - corners[i][0]
		dy := corners[j][1] - corners[i][1]
		if dx == 0 && dy == 0 {
			continue
		}
		px := a*int64(dx) + b*int64(dy)
		py := c*int64(dx) + d*int64(dy)
		if v := maxAbsInt64(px); v > maxProj {
			maxProj = v
		}
		if v := maxAbsInt64(py); v > maxProj {
			maxProj = v
		}
	}
	return maxProj
}

// deriveCoordShift runs pass 2 of §4.3: scale the matrix by 1<<8, project
// the glyph's orus bounding box through it via maxNormRect to get the
// max norm, and derive coordShift by decrementing from 13 until that
// projected maximum fits outlineResolution in 16.16. scaleCounter is
// derived in parallel by repeated *4 //4.
func deriveCoordShift(matrix [4]int32, outlineResolution int32, minX, minY, maxX, maxY int32) (coordShift uint, scaleCounter int, scaledMatrix [4]int32) {
	var m16 [4]int64
	for i, v := range matrix {
		m16[i] = int64(v) << 8
	}
	resScaled := int64(outlineResolution) << 16

	maxAbs := maxNormRect(minX, minY, maxX, maxY, m16[0], m16[1], m16[2], m16[3])

	// k decrements from 13 to 0 until max>>(13-k) <= outlineResolution<<16.
	for k := uint(13); ; k-- {
		if maxAbs>>(13-k) <= resScaled || k == 0 {
			coordShift = k
			break
		}
	}

	scaleCounter = 0
	norm := maxAbs
	for norm > resScaled && scaleCounter < 5 {
		norm /= 4
		scaleCounter++
	}
	for norm < resScaled && scaleCounter > -4 {
		next := norm * 4
		if next > resScaled {
			break
		}
		norm = next
		scaleCounter--
	}

	for i, v := range m16 {
		scaledMatrix[i] = scaleMatrixElement(v, uint(8), outlineResolution)
	}
	return
}
