// Package gen generates box data sets for the benchmark harness.
package gen

import (
	"math/rand"

	"github.com/go-faker/faker/v4"

	"github.com/ic-timon/flatbush/indexer"
)

// UniformBoxes returns n boxes with min corners uniform in [0, 100)^2 and
// sides uniform in [0, maxSide).
func UniformBoxes(n int, maxSide float64, seed int64) []indexer.Box {
	rng := rand.New(rand.NewSource(seed))
	out := make([]indexer.Box, n)
	for i := range out {
		x, y := rng.Float64()*100, rng.Float64()*100
		out[i] = indexer.Box{MinX: x, MinY: y, MaxX: x + rng.Float64()*maxSide, MaxY: y + rng.Float64()*maxSide}
	}
	return out
}

// GeoClusters returns n small lon/lat boxes grouped around clusters random
// centers. Centers come from faker and change between runs; the spread
// around them is seeded.
func GeoClusters(n, clusters int, seed int64) []indexer.Box {
	if clusters < 1 {
		clusters = 1
	}
	type center struct{ lon, lat float64 }
	centers := make([]center, clusters)
	for i := range centers {
		centers[i] = center{lon: faker.Longitude(), lat: faker.Latitude()}
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]indexer.Box, n)
	for i := range out {
		c := centers[rng.Intn(clusters)]
		lon := clamp(c.lon+rng.NormFloat64()*0.5, -180, 180)
		lat := clamp(c.lat+rng.NormFloat64()*0.5, -90, 90)
		w, h := rng.Float64()*0.01, rng.Float64()*0.01
		out[i] = indexer.Box{MinX: lon, MinY: lat, MaxX: lon + w, MaxY: lat + h}
	}
	return out
}

// Queries returns n query boxes of the given side placed uniformly inside extent.
func Queries(n int, extent indexer.Box, side float64, seed int64) []indexer.Box {
	rng := rand.New(rand.NewSource(seed))
	out := make([]indexer.Box, n)
	w, h := extent.MaxX-extent.MinX, extent.MaxY-extent.MinY
	for i := range out {
		x := extent.MinX + rng.Float64()*w
		y := extent.MinY + rng.Float64()*h
		out[i] = indexer.Box{MinX: x, MinY: y, MaxX: x + side, MaxY: y + side}
	}
	return out
}

// Dataset returns boxes of the named kind: "geo" or anything else for uniform.
func Dataset(kind string, n int, seed int64) []indexer.Box {
	if kind == "geo" {
		return GeoClusters(n, 16, seed)
	}
	return UniformBoxes(n, 1, seed)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
