// flatbushd serves spatial queries over a saved index file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ic-timon/flatbush/indexer"
	"github.com/ic-timon/flatbush/internal/logging"
	"github.com/ic-timon/flatbush/server"
)

func main() {
	cfg := server.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.IndexPath, "index", "", "index file (.sz for snappy compressed)")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "gin mode: debug | release | test")
	flag.IntVar(&cfg.MaxResults, "max-results", cfg.MaxResults, "max ids per response")
	logFile := flag.String("log-file", "", "also write JSON logs to this rotating file")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logging.Must(logging.Options{Level: *logLevel, File: *logFile})
	defer log.Sync()

	if cfg.IndexPath == "" {
		log.Fatal("-index is required")
	}
	idx, err := indexer.NewIndexFromFile(cfg.IndexPath, &indexer.Config{Logger: log, Madvise: true})
	if err != nil {
		log.Fatal("load index", zap.String("path", cfg.IndexPath), zap.Error(err))
	}
	defer idx.Close()

	srv, err := server.New(idx, cfg, log)
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
