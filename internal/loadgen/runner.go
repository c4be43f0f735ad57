package loadgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/wask/pkg/logger"
)

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config.Runs <= 0 || config.Workers <= 0 {
		return nil, fmt.Errorf("%w: runs and workers must be positive", ErrInvalidConfig)
	}
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting wask load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("runs", config.Runs),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	before, err := client.Leaderboard(ctx)
	if err != nil {
		return stats, fmt.Errorf("initial leaderboard fetch failed: %w", err)
	}
	stats.RecordsBefore = len(before)

	runs := GenerateResults(config.Runs)
	stats.RunsGenerated = len(runs)

	accepted := submitRuns(ctx, client, config, runs, stats)

	after, err := client.Leaderboard(ctx)
	if err != nil {
		return stats, fmt.Errorf("leaderboard fetch failed: %w", err)
	}
	stats.RecordsAfter = len(after)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := Verify(after, stats.RecordsBefore, accepted); err != nil {
		return stats, err
	}
	log.Info(ctx, "load run completed successfully")
	return stats, nil
}

// submitRuns posts runs with at most config.Workers requests in flight and
// returns the accepted ones.
func submitRuns(ctx context.Context, client *HTTPClient, config *Config, runs []Result, stats *Stats) []Result {
	log := logger.Get()

	var (
		mu       sync.Mutex
		accepted = make([]Result, 0, len(runs))
	)
	var g errgroup.Group
	g.SetLimit(config.Workers)

	for _, run := range runs {
		if ctx.Err() != nil {
			break
		}
		run := run
		g.Go(func() error {
			resp, err := client.Submit(ctx, run)

			mu.Lock()
			stats.RunsSubmitted++
			if err != nil || resp.Status != "ok" {
				stats.RunsFailed++
			} else {
				stats.RunsAccepted++
				accepted = append(accepted, resp.Received)
			}
			mu.Unlock()

			if err != nil && config.Verbose {
				log.Warn(ctx, "submit failed", logger.String("name", run.Name), logger.Error(err))
			}
			// Failures are counted, not fatal to the run.
			return nil
		})
	}
	_ = g.Wait()

	return accepted
}

// displayFinalStats logs the final load run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var runsPerSecond float64
	if stats.Duration > 0 {
		runsPerSecond = float64(stats.RunsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("runsGenerated", stats.RunsGenerated),
		logger.Int("runsSubmitted", stats.RunsSubmitted),
		logger.Int("runsAccepted", stats.RunsAccepted),
		logger.Int("runsFailed", stats.RunsFailed),
		logger.Int("recordsBefore", stats.RecordsBefore),
		logger.Int("recordsAfter", stats.RecordsAfter),
		logger.Duration("duration", stats.Duration),
		logger.Float64("runsPerSecond", runsPerSecond))
}
