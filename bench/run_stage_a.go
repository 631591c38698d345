package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/bench/gen"
	"github.com/ic-timon/flatbush/bench/metrics"
	"github.com/ic-timon/flatbush/indexer"
)

func runStageA(opts stageOpts) error {
	const itemCount = 200_000
	const searchRuns = 1000

	nodeSizes := []int{4, 8, 16, 32, 64, 128}

	boxes := gen.Dataset(opts.data, itemCount, 42)

	var rows []metrics.StageARow
	var p99s []float64
	for _, ns := range nodeSizes {
		opts.log.Info("stage a", zap.Int("nodeSize", ns), zap.Int("items", itemCount))

		metrics.GC()
		cfg := &indexer.Config{NodeSize: ns, Logger: opts.log}
		idx, buildDur, err := buildIndex(boxes, cfg)
		if err != nil {
			return err
		}
		queries := gen.Queries(searchRuns, idx.Extent(), extentSide(idx)/100, int64(ns))
		if err := crossCheck(idx, boxes, queries, 10); err != nil {
			return err
		}
		stats := metrics.LatencyStatsFromDurations(timeQueries(idx, queries))

		metrics.GC()
		after := metrics.Take()

		rows = append(rows, metrics.StageARow{
			NodeSize:    ns,
			ItemCount:   itemCount,
			BuildDurMs:  metrics.Ms(buildDur),
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
			IndexMB:     metrics.MB(uint64(len(idx.Bytes()))),
			HeapAllocMB: metrics.MB(after.HeapAlloc),
		})
		p99s = append(p99s, stats.P99Ms)
	}

	metrics.PrintTable(os.Stdout, "stage a: node size sweep", metrics.StageAHeader, metrics.Cells(rows), metrics.MinIndex(p99s))
	path := metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteCSV(path, metrics.StageAHeader, rows); err != nil {
		return err
	}
	opts.log.Info("report written", zap.String("path", path))
	return nil
}

// extentSide is the longer side of the index extent.
func extentSide(idx *indexer.Index) float64 {
	e := idx.Extent()
	return max(e.MaxX-e.MinX, e.MaxY-e.MinY)
}
