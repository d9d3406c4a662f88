package services

import (
	"context"
	"log/slog"

	"counselfinder/internal/reference"
	"counselfinder/pkg/contracts/domain"
)

// ReferenceService exposes the reference store lifecycle to the API.
type ReferenceService struct {
	store  *reference.Store
	logger *slog.Logger
}

// NewReferenceService creates a reference service over the given store.
func NewReferenceService(store *reference.Store, logger *slog.Logger) *ReferenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceService{
		store:  store,
		logger: logger.With(slog.String("component", "reference_service")),
	}
}

// Status reports the currently active reference file.
func (s *ReferenceService) Status(ctx context.Context) domain.ReferenceStatus {
	return s.store.Status(ctx)
}

// Reload forces a rescan of the data directory and returns the status
// of whatever file is active afterwards.
func (s *ReferenceService) Reload(ctx context.Context) (domain.ReferenceStatus, error) {
	if err := s.store.Reload(ctx); err != nil {
		return domain.ReferenceStatus{}, err
	}

	status := s.store.Status(ctx)
	s.logger.InfoContext(ctx, "reference data reloaded",
		slog.String("file", status.FileName),
		slog.Int("symbols", status.Symbols),
	)
	return status, nil
}
