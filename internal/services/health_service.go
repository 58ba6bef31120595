package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"indentdesk/internal/files"
	"indentdesk/internal/sheets"
)

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// StatsReporter is a cache that keeps hit and miss counters
type StatsReporter interface {
	Stats() map[string]interface{}
}

// SnapshotLister lists the written report snapshots
type SnapshotLister interface {
	List() ([]files.FileInfo, error)
}

// HealthOption configures optional health checks
type HealthOption func(*HealthService)

// WithCacheStats adds cache statistics to the liveness report
func WithCacheStats(stats StatsReporter) HealthOption {
	return func(hs *HealthService) { hs.cacheStats = stats }
}

// WithSnapshots adds the latest report snapshot to the readiness report
func WithSnapshots(snapshots SnapshotLister) HealthOption {
	return func(hs *HealthService) { hs.snapshots = snapshots }
}

// HealthService provides health check functionality
type HealthService struct {
	version    string
	store      sheets.Store
	clients    ClientCounter
	cacheStats StatsReporter
	snapshots  SnapshotLister
	timeout    time.Duration
	startTime  time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthService creates a health service. The readiness probe fetches
// MASTER from store within timeout. clients may be nil.
func NewHealthService(version string, store sheets.Store, clients ClientCounter, timeout time.Duration, logger *slog.Logger, opts ...HealthOption) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hs := &HealthService{
		version:   version,
		store:     store,
		clients:   clients,
		timeout:   timeout,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
	for _, opt := range opts {
		opt(hs)
	}
	return hs
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
	if hs.cacheStats != nil {
		status.Runtime["cache"] = hs.cacheStats.Stats()
	}
	return status
}

// ReadinessCheck returns readiness status. It is not ready while the row
// store cannot be reached.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"store":     hs.checkStore(ctx),
			"websocket": hs.checkWebSocket(),
		},
	}
	if hs.snapshots != nil {
		status.Services["snapshots"] = hs.checkSnapshots()
	}

	for name, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "service not ready",
				slog.String("service", name),
				slog.String("message", service.Message),
			)
		}
	}
	return status
}

// Uptime returns how long the service has been running
func (hs *HealthService) Uptime() time.Duration {
	return time.Since(hs.startTime)
}

func (hs *HealthService) checkStore(ctx context.Context) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, hs.timeout)
	defer cancel()

	start := time.Now()
	if _, err := hs.store.FetchMaster(ctx); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Row store unreachable: %v", err),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "Row store is reachable",
		Latency: time.Since(start).Round(time.Millisecond).String(),
	}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "ready", Message: "WebSocket hub disabled"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d client(s) connected", hs.clients.ClientCount()),
	}
}

func (hs *HealthService) checkSnapshots() ServiceHealth {
	found, err := hs.snapshots.List()
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Snapshot directory unreadable: %v", err),
		}
	}
	latest, ok := files.GetLatestFile(found)
	if !ok {
		return ServiceHealth{Status: "ready", Message: "No report snapshot written yet"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("Latest snapshot %s written %s", latest.Name, latest.ModTime.Format(time.RFC3339)),
	}
}
