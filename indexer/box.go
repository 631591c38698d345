package indexer

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBox returns the inverted box that is the identity for Extend and
// intersects nothing.
func EmptyBox() Box {
	return Box{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether b contains no points.
func (b Box) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Intersects reports whether b and o overlap. Touching edges count.
func (b Box) Intersects(o Box) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Extend gives the smallest box containing both b and o.
func (b Box) Extend(o Box) Box {
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// DistanceSq returns the squared distance from point (x, y) to b, zero inside.
func (b Box) DistanceSq(x, y float64) float64 {
	dx := axisDist(x, b.MinX, b.MaxX)
	dy := axisDist(y, b.MinY, b.MaxY)
	return dx*dx + dy*dy
}

func axisDist(k, lo, hi float64) float64 {
	if k < lo {
		return lo - k
	}
	if k <= hi {
		return 0
	}
	return k - hi
}

// boxAt reads the box stored at float offset pos.
func boxAt(boxes []float64, pos int) Box {
	return Box{boxes[pos], boxes[pos+1], boxes[pos+2], boxes[pos+3]}
}

func putBox(boxes []float64, pos int, b Box) {
	boxes[pos] = b.MinX
	boxes[pos+1] = b.MinY
	boxes[pos+2] = b.MaxX
	boxes[pos+3] = b.MaxY
}
