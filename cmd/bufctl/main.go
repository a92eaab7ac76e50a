// Command bufctl drives a buffer manager against a synthetic fixed-fanout
// workload, exercising allocation, hot/cooling/evicted swip transitions, and
// graceful shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tuannm99/leanbuf/internal/bufconfig"
	"github.com/tuannm99/leanbuf/internal/bufpool"
	"github.com/tuannm99/leanbuf/internal/demotree"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "bufctl.yaml", "Path to bufctl yaml config")
	flag.Parse()

	cfg, err := bufconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	setupLogging(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("bufctl: %v", err)
	}
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func run(ctx context.Context, cfg *bufconfig.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Pool.DataFile), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	volatile, err := bufpool.NewVolatileRegion(cfg.Pool.FrameCount, cfg.Pool.HugePages)
	if err != nil {
		return fmt.Errorf("new volatile region: %w", err)
	}
	defer func() { _ = volatile.Close() }()

	ssd, err := bufpool.NewSSDRegion(cfg.Pool.DataFile, cfg.Pool.PageCount)
	if err != nil {
		return fmt.Errorf("new ssd region: %w", err)
	}
	defer func() { _ = ssd.Close() }()

	mgr := bufpool.NewManager(volatile, ssd)

	const fanout, depth = 3, 4
	tree, err := demotree.Build(mgr, fanout, depth)
	if err != nil {
		return fmt.Errorf("build demo tree: %w", err)
	}

	slog.Info("bufctl: demo tree built",
		"frame_count", cfg.Pool.FrameCount, "page_count", cfg.Pool.PageCount,
		"fanout", fanout, "depth", depth)

	for pass := 0; ; pass++ {
		select {
		case <-ctx.Done():
			slog.Info("bufctl: shutting down", "passes_completed", pass)
			return nil
		default:
		}

		if err := tree.Walk(); err != nil {
			return fmt.Errorf("walk pass %d: %w", pass, err)
		}
		slog.Debug("bufctl: walk pass complete", "pass", pass)
	}
}
