package indexer

import (
	"container/heap"
	"math"
)

// Neighbors returns up to maxResults item ids ordered by ascending distance
// from (x, y) to their boxes. maxResults <= 0 means no limit; maxDistance <= 0
// or +Inf means no distance bound.
func (x *Index) Neighbors(px, py float64, maxResults int, maxDistance float64) []int {
	if x.numItems == 0 {
		return nil
	}
	maxDistSq := math.Inf(1)
	if maxDistance > 0 && !math.IsInf(maxDistance, 1) {
		maxDistSq = maxDistance * maxDistance
	}

	boxes := x.boxes
	leafEnd := x.numItems * 4
	q := &nodeQueue{}
	var results []int
	nodeIndex := len(boxes) - 4
	for {
		end := min(nodeIndex+x.nodeSize*4, x.upperBound(nodeIndex))
		for pos := nodeIndex; pos < end; pos += 4 {
			dist := boxAt(boxes, pos).DistanceSq(px, py)
			if dist > maxDistSq {
				continue
			}
			heap.Push(q, queueItem{
				id:   x.ids.Get(pos >> 2),
				leaf: nodeIndex < leafEnd,
				dist: dist,
			})
		}
		// items closer than any remaining node are final
		for q.Len() > 0 && (*q)[0].leaf {
			item := heap.Pop(q).(queueItem)
			results = append(results, item.id)
			if maxResults > 0 && len(results) == maxResults {
				return results
			}
		}
		if q.Len() == 0 {
			return results
		}
		nodeIndex = heap.Pop(q).(queueItem).id
	}
}

// queueItem is either a child group to expand (leaf=false, id = float offset)
// or an item (leaf=true, id = item id).
type queueItem struct {
	id   int
	leaf bool
	dist float64
}

// nodeQueue is a min-heap on dist; items sort before nodes at equal distance.
type nodeQueue []queueItem

func (h nodeQueue) Len() int { return len(h) }
func (h nodeQueue) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].leaf && !h[j].leaf
}
func (h nodeQueue) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeQueue) Push(x interface{}) { *h = append(*h, x.(queueItem)) }
func (h *nodeQueue) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
