// Stage d compares search on the built heap index, an mmap-loaded file and a
// snappy-compressed file decompressed into memory.
package main

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/bench/gen"
	"github.com/ic-timon/flatbush/bench/metrics"
	"github.com/ic-timon/flatbush/indexer"
)

func runStageD(opts stageOpts) error {
	const itemCount = 1_000_000
	const totalRequests = 20_000
	const concurrency = 16
	const runs = 5 // averaged

	boxes := gen.Dataset(opts.data, itemCount, 12345)
	cfg := &indexer.Config{NodeSize: opts.nodeSize, Logger: opts.log}
	heapIdx, _, err := buildIndex(boxes, cfg)
	if err != nil {
		return err
	}
	queries := gen.Queries(totalRequests, heapIdx.Extent(), extentSide(heapIdx)/200, 99)

	dir, err := os.MkdirTemp("", "flatbush-stage-d")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	modes := []struct {
		name string
		path string
	}{
		{"heap", ""},
		{"mmap", filepath.Join(dir, "index.fbi")},
		{"snappy", filepath.Join(dir, "index.fbi.sz")},
	}

	var rows []metrics.StageDRow
	var qpsList []float64
	for _, m := range modes {
		idx := heapIdx
		var fileMB, loadMs float64
		if m.path != "" {
			if err := heapIdx.SaveToAtomic(m.path); err != nil {
				return err
			}
			fi, err := os.Stat(m.path)
			if err != nil {
				return err
			}
			fileMB = metrics.MB(uint64(fi.Size()))

			t0 := time.Now()
			idx, err = indexer.NewIndexFromFile(m.path, &indexer.Config{Logger: opts.log, Madvise: true})
			if err != nil {
				return err
			}
			loadMs = metrics.Ms(time.Since(t0))
		}
		if err := crossCheck(idx, boxes, queries, 3); err != nil {
			return err
		}

		var sumQPS, sumP50, sumP99 float64
		for r := 0; r < runs; r++ {
			durations, elapsed, err := runConcurrent(idx.SearchFast, queries, concurrency)
			if err != nil {
				return err
			}
			stats := metrics.LatencyStatsFromDurations(durations)
			sumQPS += float64(len(queries)) / elapsed.Seconds()
			sumP50 += stats.P50Ms
			sumP99 += stats.P99Ms
		}
		if idx != heapIdx {
			if err := idx.Close(); err != nil {
				return err
			}
		}

		row := metrics.StageDRow{
			Mode:        m.name,
			ItemCount:   itemCount,
			FileMB:      fileMB,
			LoadMs:      loadMs,
			QPS:         sumQPS / runs,
			SearchP50Ms: sumP50 / runs,
			SearchP99Ms: sumP99 / runs,
		}
		rows = append(rows, row)
		qpsList = append(qpsList, row.QPS)
		opts.log.Info("stage d mode done", zap.String("mode", m.name), zap.Float64("qps", row.QPS))
	}

	metrics.PrintTable(os.Stdout, "stage d: heap vs mmap vs snappy", metrics.StageDHeader, metrics.Cells(rows), metrics.MaxIndex(qpsList))
	if rows[0].QPS > 0 && rows[1].QPS/rows[0].QPS < 0.5 {
		metrics.Warn(os.Stdout, "mmap QPS is %.0f%% of heap", 100*rows[1].QPS/rows[0].QPS)
	}
	path := metrics.ReportPath("bench_report_stage_d_")
	if err := metrics.WriteCSV(path, metrics.StageDHeader, rows); err != nil {
		return err
	}
	opts.log.Info("report written", zap.String("path", path))
	return nil
}
