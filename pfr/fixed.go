package pfr

// Fixed1616 is a 16.16 signed fixed-point number: the format PFR matrix
// entries and scale factors are carried in.
type Fixed1616 int32

// mul16_16 computes the signed product of two 16.16 fixed-point values,
// returning a 16.16 result. It splits absolute values into high/low 16-bit
// halves to keep every intermediate within 64 bits, then restores the sign
// by XOR of the two operands' signs.
func mul16_16(a, b int64) int64 {
	neg := (a < 0) != (b < 0)
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	hiA, loA := a>>16, a&0xffff
	hiB, loB := b>>16, b&0xffff
	result := hiA*b + (loA*loB)>>16 + loA*hiB
	// Equivalent to (hiA*hiB<<16 + hiA*loB + loA*hiB + (loA*loB>>16)),
	// folded by factoring hiA*b = hiA*(hiB<<16 + loB).
	if neg {
		result = -result
	}
	return result
}

// scaleMatrixElement performs a signed division by 1<<shift that rounds
// toward zero with a half-divisor bias, distilling a raw matrix entry
// down to scaled form (clamped to int32). outlineResolution is not used.
func scaleMatrixElement(raw int64, shift uint, outlineResolution int32) int32 {
	if shift == 0 {
		return clampInt32(raw)
	}
	bias := int64(1) << (shift - 1)
	neg := raw < 0
	if neg {
		raw = -raw
	}
	v := (raw + bias) >> shift
	if neg {
		v = -v
	}
	_ = outlineResolution
	return clampInt32(v)
}

func clampInt32(v int64) int32 {
	const maxI32 = int64(1<<31 - 1)
	const minI32 = -maxI32 - 1
	if v > maxI32 {
		return int32(maxI32)
	}
	if v < minI32 {
		return int32(minI32)
	}
	return int32(v)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxAbsInt64(vs ...int64) int64 {
	m := int64(0)
	for _, v := range vs {
		a := v
		if a < 0 {
			a = -a
		}
		if a > m {
			m = a
		}
	}
	return m
}
