package indexer

import "sort"

// Search returns the ids of all items whose box intersects q, in traversal order.
// With Config.SearchPoolWorkers set, the query runs on the index's worker pool.
func (x *Index) Search(q Box) []int {
	if x.searchPool != nil {
		return x.searchPool.Search(q)
	}
	return x.SearchFast(q, nil)
}

// SearchFast appends results to results[:0] and returns it. Reusing the slice
// across queries avoids allocations.
func (x *Index) SearchFast(q Box, results []int) []int {
	results = results[:0]
	x.SearchFunc(q, func(id int) bool {
		results = append(results, id)
		return true
	})
	return results
}

// SearchFunc calls fn with the id of each item whose box intersects q.
// The search stops early when fn returns false.
func (x *Index) SearchFunc(q Box, fn func(id int) bool) {
	if x.numItems == 0 {
		return
	}
	boxes := x.boxes
	leafEnd := x.numItems * 4
	nodeSpan := x.nodeSize * 4

	// queue holds float offsets of child groups still to scan
	var stack [64]int
	queue := stack[:0]
	nodeIndex := len(boxes) - 4
	for {
		end := min(nodeIndex+nodeSpan, x.upperBound(nodeIndex))
		for pos := nodeIndex; pos < end; pos += 4 {
			if q.MaxX < boxes[pos] || q.MaxY < boxes[pos+1] ||
				q.MinX > boxes[pos+2] || q.MinY > boxes[pos+3] {
				continue
			}
			id := x.ids.Get(pos >> 2)
			if nodeIndex >= leafEnd {
				queue = append(queue, id)
			} else if !fn(id) {
				return
			}
		}
		if len(queue) == 0 {
			return
		}
		nodeIndex = queue[len(queue)-1]
		queue = queue[:len(queue)-1]
	}
}

// upperBound returns the end of the level that contains float offset pos.
func (x *Index) upperBound(pos int) int {
	i := sort.Search(len(x.levelBounds), func(i int) bool {
		return x.levelBounds[i] > pos
	})
	return x.levelBounds[i]
}
