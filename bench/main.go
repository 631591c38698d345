// Benchmark entry point: -stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/internal/logging"
)

type stageOpts struct {
	data     string
	nodeSize int
	log      *zap.Logger
}

func main() {
	stage := flag.String("stage", "", "benchmark stage: a (node size sweep) | b (capacity) | c (concurrency) | d (heap vs mmap vs snappy)")
	data := flag.String("data", "uniform", "data set: uniform | geo")
	nodeSize := flag.Int("node-size", 16, "node size for stages b, c and d")
	logFile := flag.String("log-file", "", "also write JSON logs to this rotating file")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logging.Must(logging.Options{Level: *logLevel, File: *logFile, Console: true})
	defer log.Sync()

	opts := stageOpts{data: *data, nodeSize: *nodeSize, log: log}
	var err error
	switch *stage {
	case "a":
		err = runStageA(opts)
	case "b":
		err = runStageB(opts)
	case "c":
		err = runStageC(opts)
	case "d":
		err = runStageD(opts)
	default:
		fmt.Fprintln(os.Stderr, "specify -stage a|b|c|d")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("benchmark failed", zap.String("stage", *stage), zap.Error(err))
	}
	log.Info("benchmark done", zap.String("stage", *stage))
}
