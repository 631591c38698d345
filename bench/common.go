package main

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/ic-timon/flatbush/indexer"
)

// buildIndex packs boxes and reports how long it took.
func buildIndex(boxes []indexer.Box, cfg *indexer.Config) (*indexer.Index, time.Duration, error) {
	t0 := time.Now()
	b, err := indexer.NewBuilder(len(boxes), cfg)
	if err != nil {
		return nil, 0, err
	}
	for _, bb := range boxes {
		b.Add(bb)
	}
	idx, err := b.Finish()
	return idx, time.Since(t0), err
}

// timeQueries runs each query once and returns per-query latencies.
func timeQueries(idx *indexer.Index, queries []indexer.Box) []time.Duration {
	durations := make([]time.Duration, len(queries))
	results := make([]int, 0, 256)
	for i, q := range queries {
		t1 := time.Now()
		results = idx.SearchFast(q, results)
		durations[i] = time.Since(t1)
	}
	return durations
}

// crossCheck compares the first n query results against a linear scan.
func crossCheck(idx *indexer.Index, boxes, queries []indexer.Box, n int) error {
	for i, q := range queries {
		if i >= n {
			break
		}
		got := idx.Search(q)
		var want []int
		for id, bb := range boxes {
			if bb.Intersects(q) {
				want = append(want, id)
			}
		}
		if len(got) != len(want) {
			return errors.Errorf("query %d %+v: index returned %d items, scan found %d", i, q, len(got), len(want))
		}
		sort.Ints(got)
		for j := range got {
			if got[j] != want[j] {
				return errors.Errorf("query %d %+v: result %d is %d, want %d", i, q, j, got[j], want[j])
			}
		}
	}
	return nil
}
