package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ic-timon/flatbush/bench/gen"
	"github.com/ic-timon/flatbush/bench/metrics"
	"github.com/ic-timon/flatbush/indexer"
)

func runStageC(opts stageOpts) error {
	const itemCount = 500_000
	const totalRequests = 20_000

	concurrencies := []int{1, 4, 8, 16, 32}

	boxes := gen.Dataset(opts.data, itemCount, 12345)
	cfg := &indexer.Config{NodeSize: opts.nodeSize, Logger: opts.log, Madvise: true}
	built, buildDur, err := buildIndex(boxes, cfg)
	if err != nil {
		return err
	}
	opts.log.Info("stage c index built", zap.Int("items", itemCount), zap.Duration("took", buildDur))

	// persist and serve from an mmap-loaded copy
	tmpPath := filepath.Join(os.TempDir(), "flatbush-stage-c-index.fbi")
	if err := built.SaveToAtomic(tmpPath); err != nil {
		return err
	}
	defer os.Remove(tmpPath)
	idx, err := indexer.NewIndexFromFile(tmpPath, cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	queries := gen.Queries(totalRequests, idx.Extent(), extentSide(idx)/200, 7)
	if err := crossCheck(idx, boxes, queries, 5); err != nil {
		return err
	}

	// second mapping of the file, queried through a resident worker pool via Search
	pooledCfg := *cfg
	pooledCfg.SearchPoolWorkers = runtime.NumCPU()
	pooled, err := indexer.NewIndexFromFile(tmpPath, &pooledCfg)
	if err != nil {
		return err
	}
	defer pooled.Close()
	if err := crossCheck(pooled, boxes, queries, 5); err != nil {
		return err
	}

	modes := []struct {
		name   string
		search searchFn
	}{
		{"direct", idx.SearchFast},
		{"pool", func(q indexer.Box, _ []int) []int { return pooled.Search(q) }},
	}

	var rows []metrics.StageCRow
	var qpsList []float64
	for _, m := range modes {
		for _, concurrency := range concurrencies {
			durations, elapsed, err := runConcurrent(m.search, queries, concurrency)
			if err != nil {
				return err
			}
			stats := metrics.LatencyStatsFromDurations(durations)
			qps := float64(len(queries)) / elapsed.Seconds()
			ratio := 1.0
			if stats.P50Ms > 0 {
				ratio = stats.P99Ms / stats.P50Ms
			}
			snap := metrics.Take()
			rows = append(rows, metrics.StageCRow{
				Mode:         m.name,
				Concurrency:  concurrency,
				ItemCount:    itemCount,
				QPS:          qps,
				SearchP50Ms:  stats.P50Ms,
				SearchP99Ms:  stats.P99Ms,
				NumGoroutine: snap.NumGoroutine,
				P99P50Ratio:  ratio,
			})
			qpsList = append(qpsList, qps)
			opts.log.Debug("stage c level done", zap.String("mode", m.name), zap.Int("concurrency", concurrency), zap.Float64("qps", qps))
		}
	}

	metrics.PrintTable(os.Stdout, "stage c: concurrency (mmap)", metrics.StageCHeader, metrics.Cells(rows), metrics.MaxIndex(qpsList))
	path := metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteCSV(path, metrics.StageCHeader, rows); err != nil {
		return err
	}
	opts.log.Info("report written", zap.String("path", path))
	return nil
}

// searchFn runs one query, optionally appending into results.
type searchFn func(q indexer.Box, results []int) []int

// runConcurrent splits queries evenly over concurrency workers.
func runConcurrent(search searchFn, queries []indexer.Box, concurrency int) ([]time.Duration, time.Duration, error) {
	durations := make([]time.Duration, len(queries))
	perWorker := (len(queries) + concurrency - 1) / concurrency

	g, ctx := errgroup.WithContext(context.Background())
	start := time.Now()
	for c := 0; c < concurrency; c++ {
		base := c * perWorker
		g.Go(func() error {
			results := make([]int, 0, 256)
			for i := base; i < base+perWorker && i < len(queries); i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t1 := time.Now()
				results = search(queries[i], results)
				durations[i] = time.Since(t1)
			}
			return nil
		})
	}
	err := g.Wait()
	return durations, time.Since(start), err
}
