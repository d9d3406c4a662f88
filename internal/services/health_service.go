package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"counselfinder/internal/config"
	"counselfinder/pkg/contracts/domain"
)

// ReferenceStatuser reports the active reference file.
type ReferenceStatuser interface {
	Status(ctx context.Context) domain.ReferenceStatus
}

// ExtractionStatuser reports whether LLM extraction is configured.
type ExtractionStatuser interface {
	Enabled() bool
}

// ClientCounter reports the number of connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Services  map[string]string `json:"services"`
}

// HealthService aggregates component status for the health and
// readiness probes.
type HealthService struct {
	version    string
	paths      *config.Paths
	reference  ReferenceStatuser
	extraction ExtractionStatuser
	clients    ClientCounter
	startTime  time.Time
	logger     *slog.Logger
}

// NewHealthService creates a health service. Any dependency may be nil;
// nil components are simply omitted from the report.
func NewHealthService(version string, paths *config.Paths, reference ReferenceStatuser, extraction ExtractionStatuser, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:    version,
		paths:      paths,
		reference:  reference,
		extraction: extraction,
		clients:    clients,
		startTime:  time.Now(),
		logger:     logger.With(slog.String("component", "health_service")),
	}
}

// Health reports overall service health. Extraction being disabled is
// reported but does not degrade health: the lawyer and law-firm flows
// still work without an API key. Missing reference data likewise only
// disables enrichment.
func (s *HealthService) Health(ctx context.Context) *HealthStatus {
	components := make(map[string]string)

	if s.reference != nil {
		status := s.reference.Status(ctx)
		if status.Available {
			components["reference"] = fmt.Sprintf("loaded (%d symbols)", status.Symbols)
		} else {
			components["reference"] = "unavailable"
		}
	}
	if s.extraction != nil {
		if s.extraction.Enabled() {
			components["extraction"] = "enabled"
		} else {
			components["extraction"] = "disabled"
		}
	}
	if s.clients != nil {
		components["websocket"] = fmt.Sprintf("%d clients", s.clients.ClientCount())
	}

	return &HealthStatus{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Services:  components,
	}
}

// Ready reports whether the service can take traffic: the working
// directories must exist and be writable.
func (s *HealthService) Ready(_ context.Context) error {
	if s.paths == nil {
		return nil
	}
	for _, dir := range []string{s.paths.DataDir, s.paths.ExportsDir, s.paths.LogsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("directory %s not ready: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path %s is not a directory", dir)
		}
	}
	return nil
}

// Version returns the build version string.
func (s *HealthService) Version() string {
	return s.version
}
