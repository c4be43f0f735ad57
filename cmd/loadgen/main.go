package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/wask/internal/loadgen"
	"github.com/okian/wask/pkg/logger"
)

// Default configuration constants.
const (
	defaultRuns        = 500
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:5000", "Base URL of the service")
		runs    = flag.Int("runs", defaultRuns, "Number of results to submit")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every failed submit")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err := loadgen.Run(ctx, &loadgen.Config{
		BaseURL: *baseURL,
		Runs:    *runs,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		stop()
		cancel()
		os.Exit(1) //nolint:gocritic // deferred calls are made explicitly above
	}
}
