package raster

import "math"

// Point is a plain float64 2D point used by the shape primitives and
// the bezier flattener. Destination coordinates here are screen pixels,
// not the font-unit fixed-point space freetype/raster.Point models, so
// shapes work in float space directly rather than reusing that type.
type Point struct{ X, Y float64 }

// setPx writes one shape pixel at full alpha, blended by blend,
// respecting bitmap bounds.
func setPx(dst *Bitmap, pal []RGB, x, y int, c RGB, blend float64) {
	if x < 0 || y < 0 || x >= dst.Width || y >= dst.Height {
		return
	}
	cur, _, _ := dst.GetPixel(x, y, pal)
	out := alphaBlend(cur, c, clamp01(blend))
	writeIndexed(dst, x, y, out, pal)
}

// FillRect fills r with c (§4.11).
func FillRect(dst *Bitmap, pal []RGB, r Rect, c RGB, blend float64) {
	n, _, _ := r.Normalized()
	for y := n.Top; y < n.Bottom; y++ {
		for x := n.Left; x < n.Right; x++ {
			setPx(dst, pal, x, y, c, blend)
		}
	}
}

// StrokeRect draws r's border, thick pixels wide.
func StrokeRect(dst *Bitmap, pal []RGB, r Rect, c RGB, thick int, blend float64) {
	n, _, _ := r.Normalized()
	if thick < 1 {
		thick = 1
	}
	for t := 0; t < thick; t++ {
		top := n.Top + t
		bottom := n.Bottom - 1 - t
		for x := n.Left; x < n.Right; x++ {
			setPx(dst, pal, x, top, c, blend)
			setPx(dst, pal, x, bottom, c, blend)
		}
		left := n.Left + t
		right := n.Right - 1 - t
		for y := n.Top; y < n.Bottom; y++ {
			setPx(dst, pal, left, y, c, blend)
			setPx(dst, pal, right, y, c, blend)
		}
	}
}

// FillEllipse fills the ellipse inscribed in r. Each scanline solves
// (dx/a)^2 + (dy/b)^2 <= 1 using doubled integer coordinates to avoid
// fractions (§4.11).
func FillEllipse(dst *Bitmap, pal []RGB, r Rect, c RGB, blend float64) {
	n, _, _ := r.Normalized()
	a := n.Width() / 2
	b := n.Height() / 2
	if a <= 0 || b <= 0 {
		return
	}
	cx := n.Left + a
	cy := n.Top + b
	for dy := -b; dy <= b; dy++ {
		span := ellipseSpan(a, b, dy)
		if span < 0 {
			continue
		}
		for dx := -span; dx <= span; dx++ {
			setPx(dst, pal, cx+dx, cy+dy, c, blend)
		}
	}
}

// ellipseSpan returns the half-width of the horizontal chord at row dy
// of an axis-aligned ellipse with semi-axes a, b, using doubled
// coordinates so the comparison stays integer-exact until the final
// sqrt.
func ellipseSpan(a, b, dy int) int {
	// (dx/a)^2 + (dy/b)^2 <= 1  =>  dx <= a*sqrt(1 - (dy/b)^2)
	t := 1 - float64(dy*dy)/float64(b*b)
	if t < 0 {
		return -1
	}
	return int(float64(a) * math.Sqrt(t))
}

// StrokeEllipse draws the ellipse border by scanning the same spans as
// FillEllipse and keeping only the outermost ring of thickness pixels.
func StrokeEllipse(dst *Bitmap, pal []RGB, r Rect, c RGB, thick int, blend float64) {
	n, _, _ := r.Normalized()
	a := n.Width() / 2
	b := n.Height() / 2
	if a <= 0 || b <= 0 {
		return
	}
	cx := n.Left + a
	cy := n.Top + b
	if thick < 1 {
		thick = 1
	}
	for dy := -b; dy <= b; dy++ {
		outer := ellipseSpan(a, b, dy)
		if outer < 0 {
			continue
		}
		inner := ellipseSpan(a-thick, b-thick, dy)
		for dx := -outer; dx <= outer; dx++ {
			if dx > -inner-1 && dx < inner+1 && inner >= 0 {
				continue
			}
			setPx(dst, pal, cx+dx, cy+dy, c, blend)
		}
	}
}

// roundRectInset computes a rounded-rect corner's horizontal inset at
// vertical offset dy from the corner, per §4.11: r - sqrt(r^2-(r-dy)^2).
func roundRectInset(radius, dy int) int {
	if dy >= radius {
		return 0
	}
	rr := float64(radius)
	d := rr - float64(dy)
	v := rr*rr - d*d
	if v < 0 {
		v = 0
	}
	return int(rr - math.Sqrt(v))
}

// FillRoundRect fills r with rounded corners of the given radius,
// blending ellipse quadrants with straight edges (§4.11).
func FillRoundRect(dst *Bitmap, pal []RGB, r Rect, radius int, c RGB, blend float64) {
	n, _, _ := r.Normalized()
	if radius <= 0 {
		FillRect(dst, pal, n, c, blend)
		return
	}
	if radius*2 > n.Width() {
		radius = n.Width() / 2
	}
	if radius*2 > n.Height() {
		radius = n.Height() / 2
	}
	for y := n.Top; y < n.Bottom; y++ {
		inset := 0
		if dy := y - n.Top; dy < radius {
			inset = roundRectInset(radius, dy)
		} else if dy := n.Bottom - 1 - y; dy < radius {
			inset = roundRectInset(radius, dy)
		}
		for x := n.Left + inset; x < n.Right-inset; x++ {
			setPx(dst, pal, x, y, c, blend)
		}
	}
}

// StrokeRoundRect draws a rounded-rect border of the given radius and
// thickness.
func StrokeRoundRect(dst *Bitmap, pal []RGB, r Rect, radius, thick int, c RGB, blend float64) {
	n, _, _ := r.Normalized()
	if radius <= 0 {
		StrokeRect(dst, pal, n, c, thick, blend)
		return
	}
	if thick < 1 {
		thick = 1
	}
	outer := newMatteMask(n.Width(), n.Height())
	inner := newMatteMask(n.Width(), n.Height())
	markRoundRectMask(outer, n.Width(), n.Height(), radius)
	ir := radius - thick
	if ir > 0 {
		markRoundRectMaskInset(inner, n.Width(), n.Height(), ir, thick)
	}
	for y := 0; y < n.Height(); y++ {
		for x := 0; x < n.Width(); x++ {
			if outer.at(x, y) && !inner.at(x, y) {
				setPx(dst, pal, n.Left+x, n.Top+y, c, blend)
			}
		}
	}
}

func markRoundRectMask(m *MatteMask, w, h, radius int) {
	for y := 0; y < h; y++ {
		inset := 0
		if y < radius {
			inset = roundRectInset(radius, y)
		} else if dy := h - 1 - y; dy < radius {
			inset = roundRectInset(radius, dy)
		}
		for x := inset; x < w-inset; x++ {
			m.set(x, y, true)
		}
	}
}

func markRoundRectMaskInset(m *MatteMask, w, h, radius, border int) {
	for y := border; y < h-border; y++ {
		dyTop := y - border
		dyBot := (h - border) - 1 - y
		inset := 0
		if dyTop < radius {
			inset = roundRectInset(radius, dyTop)
		} else if dyBot < radius {
			inset = roundRectInset(radius, dyBot)
		}
		lo := border + inset
		hi := w - border - inset
		for x := lo; x < hi; x++ {
			if x >= 0 && x < w {
				m.set(x, y, true)
			}
		}
	}
}

// DrawLineThick draws a Bresenham line thickened by a square brush
// 2*(thickness/2)+1 pixels on a side (§4.11).
func DrawLineThick(dst *Bitmap, pal []RGB, x0, y0, x1, y1, thickness int, c RGB, blend float64) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	half := thickness / 2
	for {
		for ox := -half; ox <= half; ox++ {
			for oy := -half; oy <= half; oy++ {
				setPx(dst, pal, x+ox, y+oy, c, blend)
			}
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawLineAA draws an anti-aliased line using per-pixel coverage from
// signed distance to the segment, blended with premultiplied "over"
// (§4.11).
func DrawLineAA(dst *Bitmap, pal []RGB, x0, y0, x1, y1 float64, c RGB, alpha, width float64) {
	minX := int(math.Floor(math.Min(x0, x1) - width))
	maxX := int(math.Ceil(math.Max(x0, x1) + width))
	minY := int(math.Floor(math.Min(y0, y1) - width))
	maxY := int(math.Ceil(math.Max(y0, y1) + width))
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			d := distToSegment(float64(px)+0.5, float64(py)+0.5, x0, y0, dx, dy, lenSq)
			cov := clamp01(1 - (d - width/2))
			if cov <= 0 {
				continue
			}
			setPx(dst, pal, px, py, c, alpha*cov)
		}
	}
}

func distToSegment(px, py, x0, y0, dx, dy, lenSq float64) float64 {
	if lenSq == 0 {
		return math.Hypot(px-x0, py-y0)
	}
	t := ((px-x0)*dx + (py-y0)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	cx, cy := x0+t*dx, y0+t*dy
	return math.Hypot(px-cx, py-cy)
}

// flattenCubic recursively subdivides a cubic bezier (De Casteljau) down
// to depth 10 or until control points fall within ~0.5px of the chord
// (§4.11), appending the flattened polyline (excluding p0) to out.
func flattenCubic(p0, c1, c2, p3 Point, depth int, out []Point) []Point {
	if depth <= 0 || chordTolerance(p0, c1, c2, p3) <= 0.5 {
		return append(out, p3)
	}
	p01 := mid(p0, c1)
	p12 := mid(c1, c2)
	p23 := mid(c2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)
	out = flattenCubic(p0, p01, p012, p0123, depth-1, out)
	out = flattenCubic(p0123, p123, p23, p3, depth-1, out)
	return out
}

func mid(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

func chordTolerance(p0, c1, c2, p3 Point) float64 {
	d1 := distToSegment(c1.X, c1.Y, p0.X, p0.Y, p3.X-p0.X, p3.Y-p0.Y, sq(p3.X-p0.X)+sq(p3.Y-p0.Y))
	d2 := distToSegment(c2.X, c2.Y, p0.X, p0.Y, p3.X-p0.X, p3.Y-p0.Y, sq(p3.X-p0.X)+sq(p3.Y-p0.Y))
	if d1 > d2 {
		return d1
	}
	return d2
}

func sq(v float64) float64 { return v * v }

// VectorSegment is one segment of a DrawVectorShape outline.
type VectorSegment struct {
	// Cubic, if true, treats C1/C2 as control points of a cubic bezier
	// ending at X,Y; else it's a straight line to X,Y.
	Cubic  bool
	X, Y   float64
	C1, C2 Point
}

// DrawVectorShape flattens a cubic-bezier outline and either strokes it
// (anti-aliased) or scanline-fills it with the odd-even rule (§4.11).
func DrawVectorShape(dst *Bitmap, pal []RGB, start Point, segs []VectorSegment, fill bool, c RGB, strokeWidth, blend float64) {
	pts := []Point{start}
	cur := start
	for _, s := range segs {
		if s.Cubic {
			pts = flattenCubic(cur, s.C1, s.C2, Point{s.X, s.Y}, 10, pts)
		} else {
			pts = append(pts, Point{s.X, s.Y})
		}
		cur = Point{s.X, s.Y}
	}

	if fill {
		fillPolygon(dst, pal, pts, c, blend)
		return
	}
	for i := 0; i < len(pts)-1; i++ {
		DrawLineAA(dst, pal, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, c, blend, strokeWidth)
	}
}

// fillPolygon rasterizes a closed polygon via scanline intersection
// (odd-even rule), sampling edges at y+0.5 per scanline (§4.11).
func fillPolygon(dst *Bitmap, pal []RGB, pts []Point, c RGB, blend float64) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		sampleY := float64(y) + 0.5
		var xs []float64
		n := len(pts)
		for i := 0; i < n; i++ {
			a, b := pts[i], pts[(i+1)%n]
			if (a.Y <= sampleY && b.Y > sampleY) || (b.Y <= sampleY && a.Y > sampleY) {
				t := (sampleY - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			lo := int(math.Ceil(xs[i] - 0.5))
			hi := int(math.Floor(xs[i+1] - 0.5))
			for x := lo; x <= hi; x++ {
				setPx(dst, pal, x, y, c, blend)
			}
		}
	}
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
