// Package jobs runs the scheduled background work: keeping the sheet cache
// warm and writing the nightly report snapshot.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"indentdesk/internal/config"
	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts/domain"
	"indentdesk/pkg/contracts/events"
)

const (
	warmTimeout     = 2 * time.Minute
	snapshotTimeout = 5 * time.Minute
)

// Warmer refreshes cached sheet snapshots
type Warmer interface {
	Warm(ctx context.Context, names ...string) error
}

// Reporter computes the unfiltered dashboard
type Reporter interface {
	Report(ctx context.Context, filters domain.FilterSpec) (domain.Dashboard, error)
}

// Snapshotter persists a dated copy of the dashboard
type Snapshotter interface {
	Write(d domain.Dashboard, day time.Time) (string, error)
}

// Notifier reports pending counts per workflow stage
type Notifier interface {
	Notifications(ctx context.Context) (map[string]int, error)
}

// Broadcaster pushes an event to live clients
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// WarmSheets are the sheets refreshed by the warm job
var WarmSheets = []string{domain.SheetIndent, domain.SheetReceived, domain.SheetInventory}

// CronManager manages scheduled jobs
type CronManager struct {
	cron      *cron.Cron
	cfg       config.JobsConfig
	warmer    Warmer
	reporter  Reporter
	snapshots Snapshotter
	notifier  Notifier
	hub       Broadcaster
	now       func() time.Time
	logger    *slog.Logger
}

// Option customises a CronManager
type Option func(*CronManager)

// WithNotifications broadcasts the pending counts after every cache warm
func WithNotifications(n Notifier, hub Broadcaster) Option {
	return func(cm *CronManager) {
		cm.notifier = n
		cm.hub = hub
	}
}

// WithClock overrides the clock used to date snapshots
func WithClock(now func() time.Time) Option {
	return func(cm *CronManager) {
		cm.now = now
	}
}

// NewCronManager creates a cron manager. Jobs are not scheduled until
// SetupJobs is called.
func NewCronManager(cfg config.JobsConfig, warmer Warmer, reporter Reporter, snapshots Snapshotter, logger *slog.Logger, opts ...Option) *CronManager {
	logger = logger.With(slog.String("component", "jobs"))
	cm := &CronManager{
		cfg:       cfg,
		warmer:    warmer,
		reporter:  reporter,
		snapshots: snapshots,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(cm)
	}

	cronLogger := slogCronLogger{logger: logger}
	cm.cron = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	return cm
}

// SetupJobs registers the warm and snapshot jobs. An empty spec disables
// that job.
func (cm *CronManager) SetupJobs() error {
	if cm.cfg.WarmCache != "" {
		if _, err := cm.cron.AddFunc(cm.cfg.WarmCache, func() {
			ctx, cancel := runContext(warmTimeout)
			defer cancel()
			if err := cm.WarmCache(ctx); err != nil {
				cm.logger.ErrorContext(ctx, "cache warm job failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			return fmt.Errorf("invalid warm cache schedule %q: %w", cm.cfg.WarmCache, err)
		}
	}

	if cm.cfg.Snapshot != "" {
		if _, err := cm.cron.AddFunc(cm.cfg.Snapshot, func() {
			ctx, cancel := runContext(snapshotTimeout)
			defer cancel()
			if _, err := cm.Snapshot(ctx); err != nil {
				cm.logger.ErrorContext(ctx, "snapshot job failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			return fmt.Errorf("invalid snapshot schedule %q: %w", cm.cfg.Snapshot, err)
		}
	}

	cm.logger.Info("cron jobs configured",
		slog.String("warm_cache", cm.cfg.WarmCache),
		slog.String("snapshot", cm.cfg.Snapshot),
		slog.Int("entries", len(cm.cron.Entries())))
	return nil
}

// Start starts the scheduler in its own goroutine
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx expires
func (cm *CronManager) Stop(ctx context.Context) error {
	done := cm.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WarmCache refetches the hot sheets and, when configured, pushes the fresh
// pending counts to live clients
func (cm *CronManager) WarmCache(ctx context.Context) error {
	start := time.Now()
	if err := cm.warmer.Warm(ctx, WarmSheets...); err != nil {
		return fmt.Errorf("warm sheets: %w", err)
	}
	cm.logger.DebugContext(ctx, "sheet cache warmed", slog.Duration("duration", time.Since(start)))

	if cm.notifier == nil || cm.hub == nil {
		return nil
	}
	counts, err := cm.notifier.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("pending counts: %w", err)
	}
	cm.hub.Broadcast(string(events.MessageTypeNotifications), events.Notifications{Counts: counts})
	return nil
}

// Snapshot writes today's unfiltered report and returns the file path
func (cm *CronManager) Snapshot(ctx context.Context) (string, error) {
	dashboard, err := cm.reporter.Report(ctx, domain.FilterSpec{})
	if err != nil {
		return "", fmt.Errorf("compute report: %w", err)
	}
	path, err := cm.snapshots.Write(dashboard, cm.now())
	if err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// runContext gives each job run its own trace id so its log lines group
// together
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(infrastructure.EnsureTraceID(context.Background()), timeout)
}

// slogCronLogger adapts slog to cron's logger interface
type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
