package repository

import (
	"context"
	"time"

	"github.com/okian/wask/internal/domain/model"
	"github.com/okian/wask/pkg/metrics"
)

// instrumented records latency and failures of every store call.
type instrumented struct {
	next   Store
	driver string
}

// Instrument wraps store so each operation is reported to pkg/metrics under
// the given driver label.
func Instrument(store Store, driver string) Store {
	return &instrumented{next: store, driver: driver}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(s.driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(s.driver, op)
	}
}

func (s *instrumented) EnsureSchema(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ensure_schema", start, err) }(time.Now())
	return s.next.EnsureSchema(ctx)
}

func (s *instrumented) Append(ctx context.Context, sub model.Submission) (sc model.Score, err error) {
	defer func(start time.Time) { s.observe("append", start, err) }(time.Now())
	return s.next.Append(ctx, sub)
}

func (s *instrumented) ListByTime(ctx context.Context) (out []model.Score, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.next.ListByTime(ctx)
}

func (s *instrumented) Count(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { s.observe("count", start, err) }(time.Now())
	n, err = s.next.Count(ctx)
	if err == nil {
		metrics.UpdateRecordsTotal(n)
	}
	return n, err
}

func (s *instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ping", start, err) }(time.Now())
	return s.next.Ping(ctx)
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
