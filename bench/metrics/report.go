package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LatencyStats summarizes a set of query latencies.
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageARow is one node-size sweep measurement.
type StageARow struct {
	NodeSize    int
	ItemCount   int
	BuildDurMs  float64
	SearchP50Ms float64
	SearchP99Ms float64
	IndexMB     float64
	HeapAllocMB float64
}

// StageBRow is one capacity scaling measurement.
type StageBRow struct {
	ItemCount   int
	NumNodes    int
	IndexWidth  int
	BuildDurMs  float64
	SearchP50Ms float64
	SearchP99Ms float64
	HeapSysMB   float64
}

// StageCRow is one concurrency level measurement.
type StageCRow struct {
	Mode         string
	Concurrency  int
	ItemCount    int
	QPS          float64
	SearchP50Ms  float64
	SearchP99Ms  float64
	NumGoroutine int
	P99P50Ratio  float64
}

// StageDRow compares one storage mode.
type StageDRow struct {
	Mode        string
	ItemCount   int
	FileMB      float64
	LoadMs      float64
	QPS         float64
	SearchP50Ms float64
	SearchP99Ms float64
}

// Percentile returns the p-th percentile (0-100) of an ascending slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// LatencyStatsFromDurations computes P50/P95/P99 and the mean.
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = Ms(d)
		sum += ms[i]
	}
	sort.Float64s(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

// cells renders the row in header order.
func (r StageARow) cells() []string {
	return []string{
		fmt.Sprintf("%d", r.NodeSize),
		fmt.Sprintf("%d", r.ItemCount),
		fmt.Sprintf("%.2f", r.BuildDurMs),
		fmt.Sprintf("%.3f", r.SearchP50Ms),
		fmt.Sprintf("%.3f", r.SearchP99Ms),
		fmt.Sprintf("%.2f", r.IndexMB),
		fmt.Sprintf("%.2f", r.HeapAllocMB),
	}
}

func (r StageBRow) cells() []string {
	return []string{
		fmt.Sprintf("%d", r.ItemCount),
		fmt.Sprintf("%d", r.NumNodes),
		fmt.Sprintf("%d", r.IndexWidth),
		fmt.Sprintf("%.2f", r.BuildDurMs),
		fmt.Sprintf("%.3f", r.SearchP50Ms),
		fmt.Sprintf("%.3f", r.SearchP99Ms),
		fmt.Sprintf("%.2f", r.HeapSysMB),
	}
}

func (r StageCRow) cells() []string {
	return []string{
		r.Mode,
		fmt.Sprintf("%d", r.Concurrency),
		fmt.Sprintf("%d", r.ItemCount),
		fmt.Sprintf("%.0f", r.QPS),
		fmt.Sprintf("%.3f", r.SearchP50Ms),
		fmt.Sprintf("%.3f", r.SearchP99Ms),
		fmt.Sprintf("%d", r.NumGoroutine),
		fmt.Sprintf("%.2f", r.P99P50Ratio),
	}
}

func (r StageDRow) cells() []string {
	return []string{
		r.Mode,
		fmt.Sprintf("%d", r.ItemCount),
		fmt.Sprintf("%.2f", r.FileMB),
		fmt.Sprintf("%.2f", r.LoadMs),
		fmt.Sprintf("%.0f", r.QPS),
		fmt.Sprintf("%.3f", r.SearchP50Ms),
		fmt.Sprintf("%.3f", r.SearchP99Ms),
	}
}

var (
	StageAHeader = []string{"NodeSize", "ItemCount", "BuildDurMs", "SearchP50Ms", "SearchP99Ms", "IndexMB", "HeapAllocMB"}
	StageBHeader = []string{"ItemCount", "NumNodes", "IndexWidth", "BuildDurMs", "SearchP50Ms", "SearchP99Ms", "HeapSysMB"}
	StageCHeader = []string{"Mode", "Concurrency", "ItemCount", "QPS", "SearchP50Ms", "SearchP99Ms", "NumGoroutine", "P99P50Ratio"}
	StageDHeader = []string{"Mode", "ItemCount", "FileMB", "LoadMs", "QPS", "SearchP50Ms", "SearchP99Ms"}
)

type row interface{ cells() []string }

// Cells renders rows as string cells.
func Cells[R row](rows []R) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.cells()
	}
	return out
}

// WriteCSV writes header and rows to path, creating parent directories.
func WriteCSV[R row](path string, header []string, rows []R) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(Cells(rows)); err != nil {
		return err
	}
	return f.Sync()
}

// ReportDir is where CSV reports are written.
const ReportDir = "report"

// ReportPath returns a dated report path under ReportDir.
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}
