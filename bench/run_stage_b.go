package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/bench/gen"
	"github.com/ic-timon/flatbush/bench/metrics"
	"github.com/ic-timon/flatbush/indexer"
	"github.com/ic-timon/flatbush/indexer/store"
)

func runStageB(opts stageOpts) error {
	const searchRuns = 500

	// 15358 and 15359 straddle the 16/32-bit index switch at node size 16
	scales := []int{10_000, 15_358, 15_359, 100_000, 1_000_000, 5_000_000}

	var rows []metrics.StageBRow
	for _, n := range scales {
		opts.log.Info("stage b", zap.Int("items", n), zap.Int("nodeSize", opts.nodeSize))

		boxes := gen.Dataset(opts.data, n, int64(n))
		metrics.GC()

		idx, buildDur, err := buildIndex(boxes, &indexer.Config{NodeSize: opts.nodeSize, Logger: opts.log})
		if err != nil {
			return err
		}
		queries := gen.Queries(searchRuns, idx.Extent(), extentSide(idx)/200, int64(n)+1)
		if err := crossCheck(idx, boxes, queries, 3); err != nil {
			return err
		}
		stats := metrics.LatencyStatsFromDurations(timeQueries(idx, queries))

		after := metrics.Take()
		rows = append(rows, metrics.StageBRow{
			ItemCount:   n,
			NumNodes:    idx.NumNodes(),
			IndexWidth:  store.IndexWidth(idx.NumNodes()),
			BuildDurMs:  metrics.Ms(buildDur),
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
			HeapSysMB:   metrics.MB(after.HeapSys),
		})
	}

	metrics.PrintTable(os.Stdout, "stage b: capacity", metrics.StageBHeader, metrics.Cells(rows), -1)
	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteCSV(path, metrics.StageBHeader, rows); err != nil {
		return err
	}
	opts.log.Info("report written", zap.String("path", path))
	return nil
}
