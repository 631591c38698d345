package indexer

import (
	"math"
	"sort"

	"github.com/ic-timon/flatbush/indexer/store"
)

// SortParams describes the leaf region handed to a Sorter.
type SortParams struct {
	NumItems int
	NodeSize int
	Extent   Box // bounds of all leaves
}

// Sorter reorders the leaf boxes before internal nodes are synthesized.
// boxes holds 4*NumItems floats; ids holds, per leaf, its original position.
// A Sorter must permute both jointly so ids[i] keeps naming the item whose box
// now sits at slot i.
type Sorter interface {
	Sort(p SortParams, boxes []float64, ids store.Indices) error
}

// SortFunc adapts a function to a Sorter.
type SortFunc func(p SortParams, boxes []float64, ids store.Indices) error

func (f SortFunc) Sort(p SortParams, boxes []float64, ids store.Indices) error {
	return f(p, boxes, ids)
}

var (
	// HilbertSort orders leaves by the Hilbert distance of their centers.
	HilbertSort Sorter = SortFunc(func(p SortParams, boxes []float64, ids store.Indices) error {
		return curveSort(p, boxes, ids, hilbert)
	})
	// ZOrderSort orders leaves by the Morton code of their centers.
	ZOrderSort Sorter = SortFunc(func(p SortParams, boxes []float64, ids store.Indices) error {
		return curveSort(p, boxes, ids, zOrder)
	})
	// NoSort keeps insertion order.
	NoSort Sorter = SortFunc(func(SortParams, []float64, store.Indices) error { return nil })
)

const curveMax = 1<<16 - 1

// curveSort computes one curve key per leaf center and stable-sorts the
// leaves by ascending key.
func curveSort(p SortParams, boxes []float64, ids store.Indices, curve func(x, y uint32) uint32) error {
	n := p.NumItems
	width := p.Extent.MaxX - p.Extent.MinX
	if width == 0 {
		width = 1
	}
	height := p.Extent.MaxY - p.Extent.MinY
	if height == 0 {
		height = 1
	}

	keys := make([]uint32, n)
	for i, pos := 0, 0; i < n; i, pos = i+1, pos+4 {
		cx := (boxes[pos] + boxes[pos+2]) / 2
		cy := (boxes[pos+1] + boxes[pos+3]) / 2
		keys[i] = curve(quantize(cx-p.Extent.MinX, width), quantize(cy-p.Extent.MinY, height))
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})
	return permute(order, boxes, ids)
}

// quantize maps offset/span onto [0, curveMax], clamping out-of-range and NaN input.
func quantize(offset, span float64) uint32 {
	v := math.Floor(curveMax * offset / span)
	if !(v >= 0) {
		return 0
	}
	if v > curveMax {
		return curveMax
	}
	return uint32(v)
}

// permute moves the leaf at slot order[i] to slot i, for boxes and ids alike.
func permute(order []int, boxes []float64, ids store.Indices) error {
	n := len(order)
	srcBoxes := make([]float64, n*4)
	copy(srcBoxes, boxes[:n*4])
	srcIDs := make([]int, n)
	for i := range srcIDs {
		srcIDs[i] = ids.Get(i)
	}
	for i, src := range order {
		copy(boxes[i*4:i*4+4], srcBoxes[src*4:src*4+4])
		if err := ids.Set(i, srcIDs[src]); err != nil {
			return err
		}
	}
	return nil
}
