package metrics

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyStatsFromDurations(t *testing.T) {
	var ds []time.Duration
	for i := 100; i >= 1; i-- {
		ds = append(ds, time.Duration(i)*time.Millisecond)
	}
	s := LatencyStatsFromDurations(ds)
	assert.Equal(t, 100, s.N)
	assert.Equal(t, 50.0, s.P50Ms)
	assert.Equal(t, 99.0, s.P99Ms)
	assert.InDelta(t, 50.5, s.AvgMs, 1e-9)

	assert.Equal(t, LatencyStats{}, LatencyStatsFromDurations(nil))
}

func TestPercentile_Edges(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))
	vals := []float64{1, 2, 3}
	assert.Equal(t, 1.0, Percentile(vals, -5))
	assert.Equal(t, 1.0, Percentile(vals, 0.1))
	assert.Equal(t, 3.0, Percentile(vals, 150))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "a.csv")
	rows := []StageARow{{NodeSize: 16, ItemCount: 1000, BuildDurMs: 1.5}}
	require.NoError(t, WriteCSV(path, StageAHeader, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, StageAHeader, records[0])
	assert.Equal(t, "16", records[1][0])
	assert.Equal(t, "1.50", records[1][2])
}

func TestPrintTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	PrintTable(&buf, "stage", []string{"a", "bb"}, [][]string{{"1", "2"}, {"333", "4"}}, 1)
	assert.Equal(t, "stage\na    bb\n1    2 \n333  4 \n", buf.String())
}

func TestMinMaxIndex(t *testing.T) {
	assert.Equal(t, 1, MinIndex([]float64{3, 1, 2}))
	assert.Equal(t, 0, MaxIndex([]float64{3, 1, 2}))
	assert.Equal(t, -1, MinIndex(nil))
}
