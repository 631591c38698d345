package indexer

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBox(rnd *rand.Rand, maxStart, maxWidth float64) Box {
	bb := Box{
		MinX: rnd.Float64() * maxStart,
		MinY: rnd.Float64() * maxStart,
	}
	bb.MaxX = bb.MinX + rnd.Float64()*maxWidth
	bb.MaxY = bb.MinY + rnd.Float64()*maxWidth

	bb.MinX = float64(int(bb.MinX*100)) / 100
	bb.MinY = float64(int(bb.MinY*100)) / 100
	bb.MaxX = float64(int(bb.MaxX*100)) / 100
	bb.MaxY = float64(int(bb.MaxY*100)) / 100
	return bb
}

func randomBoxes(n int, seed int64) []Box {
	rnd := rand.New(rand.NewSource(seed))
	boxes := make([]Box, n)
	for i := range boxes {
		boxes[i] = randomBox(rnd, 0.9, 0.1)
	}
	return boxes
}

func bruteForce(boxes []Box, q Box) []int {
	want := []int{}
	for i, bb := range boxes {
		if bb.Intersects(q) {
			want = append(want, i)
		}
	}
	return want
}

func sorted(ids []int) []int {
	out := append([]int{}, ids...)
	sort.Ints(out)
	return out
}

func TestSearch_Random(t *testing.T) {
	sorters := map[string]Sorter{"hilbert": HilbertSort, "zorder": ZOrderSort, "none": NoSort}
	for name, sorter := range sorters {
		for _, nodeSize := range []int{2, 3, 4, 16} {
			for _, population := range []int{0, 1, 2, 5, 16, 17, 50, 257} {
				name := fmt.Sprintf("%s_node_%d_pop_%d", name, nodeSize, population)
				t.Run(name, func(t *testing.T) {
					boxes := randomBoxes(population, int64(population))
					idx := buildIndex(t, boxes, &Config{NodeSize: nodeSize, Sorter: sorter})

					rnd := rand.New(rand.NewSource(1))
					for i := 0; i < 20; i++ {
						q := randomBox(rnd, 0.5, 0.5)
						got := idx.Search(q)
						require.Equal(t, bruteForce(boxes, q), sorted(got), "query %v", q)
						for _, id := range got {
							bb, ok := idx.BoxAt(id)
							require.True(t, ok)
							require.True(t, bb.Intersects(q))
						}
					}
				})
			}
		}
	}
}

func TestSearch_FullExtentRoundtrip(t *testing.T) {
	for _, n := range []int{1, 16, 17, 1000, 5000} {
		boxes := randomBoxes(n, 7)
		idx := buildIndex(t, boxes, nil)
		got := sorted(idx.Search(idx.Extent()))
		require.Len(t, got, n)
		for i, id := range got {
			require.Equal(t, i, id)
		}
	}
}

func TestSearch_IndexWidthBoundary(t *testing.T) {
	for _, tc := range []struct {
		items, width int
	}{
		{15358, 2},
		{15359, 4},
	} {
		boxes := randomBoxes(tc.items, 3)
		idx := buildIndex(t, boxes, nil)
		require.Equal(t, tc.width, idx.ids.Width(), "items=%d", tc.items)
		require.Len(t, sorted(idx.Search(idx.Extent())), tc.items)

		q := Box{0.2, 0.2, 0.3, 0.35}
		assert.Equal(t, bruteForce(boxes, q), sorted(idx.Search(q)))
	}
}

func TestSearch_Disjoint(t *testing.T) {
	idx := buildIndex(t, randomBoxes(300, 11), nil)
	assert.Empty(t, idx.Search(Box{2, 2, 3, 3}))
	assert.Empty(t, idx.Search(Box{-3, -3, -2, -2}))
}

func TestSearch_TouchingEdges(t *testing.T) {
	idx := buildIndex(t, []Box{{0, 0, 1, 1}, {1, 1, 2, 2}, {3, 3, 3, 3}}, nil)
	assert.ElementsMatch(t, []int{0, 1}, idx.Search(Box{1, 1, 1, 1}))
	assert.Equal(t, []int{2}, idx.Search(Box{3, 3, 4, 4}))
}

func TestSearchFunc_Stop(t *testing.T) {
	boxes := randomBoxes(500, 5)
	idx := buildIndex(t, boxes, nil)
	var got []int
	idx.SearchFunc(idx.Extent(), func(id int) bool {
		got = append(got, id)
		return len(got) < 10
	})
	assert.Len(t, got, 10)
}

func TestSearchFast_ReusesSlice(t *testing.T) {
	boxes := randomBoxes(500, 9)
	idx := buildIndex(t, boxes, nil)
	buf := make([]int, 0, 1024)
	q := Box{0.1, 0.1, 0.4, 0.4}
	res := idx.SearchFast(q, buf)
	assert.Equal(t, bruteForce(boxes, q), sorted(res))
	if len(res) > 0 {
		assert.Same(t, &buf[:1][0], &res[0])
	}
	res = idx.SearchFast(Box{5, 5, 6, 6}, res)
	assert.Empty(t, res)
}

func TestSearch_Deterministic(t *testing.T) {
	boxes := randomBoxes(2000, 21)
	a := buildIndex(t, boxes, nil)
	b := buildIndex(t, boxes, nil)
	assert.Equal(t, a.Bytes(), b.Bytes())
	q := Box{0.3, 0.3, 0.6, 0.6}
	assert.Equal(t, a.Search(q), b.Search(q))
}
