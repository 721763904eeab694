package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/env-context-service/internal/aggregator"
	"github.com/couchcryptid/env-context-service/internal/domain"
	"github.com/couchcryptid/env-context-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Gatherer builds one environmental snapshot.
type Gatherer interface {
	Gather(ctx context.Context, keys aggregator.APIKeys, date time.Time) *domain.Snapshot
}

// Publisher delivers a gathered snapshot downstream.
type Publisher interface {
	Publish(ctx context.Context, cycleID string, s *domain.Snapshot) error
}

// LogPublisher is the Publisher used when Kafka is disabled. It only logs.
type LogPublisher struct {
	Logger *slog.Logger
}

func (l LogPublisher) Publish(_ context.Context, cycleID string, s *domain.Snapshot) error {
	l.Logger.Info("snapshot gathered, publication disabled",
		"cycle_id", cycleID,
		"date", s.Date.Format(time.DateOnly),
		"has_data", s.HasAnyData(),
	)
	return nil
}

// Options tunes the gather cycle.
type Options struct {
	Keys        aggregator.APIKeys
	Interval    time.Duration
	MaxAttempts int
	// Clock drives the cycle ticker and publish backoff. Nil means real time.
	Clock clockwork.Clock
}

// Pipeline gathers a snapshot on start and then once per interval, publishing
// each one.
type Pipeline struct {
	gatherer  Gatherer
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
	clock     clockwork.Clock
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(g Gatherer, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Pipeline{
		gatherer:  g,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
		clock:     clock,
	}
}

// CheckReadiness returns nil once the pipeline has completed a cycle, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a gather cycle yet")
	}
	return nil
}

// Run executes the gather loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.opts.Interval <= 0 {
		return fmt.Errorf("invalid gather interval %s", p.opts.Interval)
	}
	p.logger.Info("pipeline started", "interval", p.opts.Interval, "max_publish_attempts", p.opts.MaxAttempts)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.runCycle(ctx)
		}
	}
}

// runCycle gathers and publishes one snapshot.
func (p *Pipeline) runCycle(ctx context.Context) {
	cycleID := uuid.NewString()
	ctx = aggregator.WithCycleID(ctx, cycleID)

	snapshot := p.gatherer.Gather(ctx, p.opts.Keys, time.Time{})
	if ctx.Err() != nil {
		return
	}

	if err := p.publish(ctx, cycleID, snapshot); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("publish snapshot failed, giving up until next cycle",
			"cycle_id", cycleID,
			"attempts", p.opts.MaxAttempts,
			"error", err,
		)
	}
	p.ready.Store(true)
}

// publish retries the publisher with capped exponential backoff.
func (p *Pipeline) publish(ctx context.Context, cycleID string, s *domain.Snapshot) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		if err = p.publisher.Publish(ctx, cycleID, s); err == nil {
			p.metrics.SnapshotsPublished.Inc()
			return nil
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish attempt failed",
			"cycle_id", cycleID,
			"attempt", attempt,
			"error", err,
		)
		if attempt == p.opts.MaxAttempts {
			break
		}
		if !sleepWithContext(ctx, p.clock, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return err
}

// sleepWithContext mirrors retry.SleepWithContext on the pipeline clock.
func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
