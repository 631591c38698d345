package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	headerColor = color.New(color.FgYellow)
	bestColor   = color.New(color.FgGreen, color.Bold)
	warnColor   = color.New(color.FgRed)
)

// PrintTable writes an aligned table to w. The row at index best (if >= 0)
// is highlighted.
func PrintTable(w io.Writer, title string, header []string, rows [][]string, best int) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.Join(parts, "  ")
	}

	titleColor.Fprintln(w, title)
	headerColor.Fprintln(w, line(header))
	for i, r := range rows {
		if i == best {
			bestColor.Fprintln(w, line(r))
			continue
		}
		fmt.Fprintln(w, line(r))
	}
}

// Warn prints a highlighted warning line.
func Warn(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, format+"\n", args...)
}

// MinIndex returns the index of the smallest value, or -1 for an empty slice.
func MinIndex(vals []float64) int {
	best := -1
	for i, v := range vals {
		if best < 0 || v < vals[best] {
			best = i
		}
	}
	return best
}

// MaxIndex returns the index of the largest value, or -1 for an empty slice.
func MaxIndex(vals []float64) int {
	best := -1
	for i, v := range vals {
		if best < 0 || v > vals[best] {
			best = i
		}
	}
	return best
}
