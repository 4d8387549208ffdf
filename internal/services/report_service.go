package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/analysis"
	"github.com/SAP-F-2025/item-analysis-service/internal/cache"
	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// maxParallelLoads bounds concurrent session reads for one report
const maxParallelLoads = 8

type reportService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	cacheTTL  time.Duration
}

func NewReportService(repo repositories.Repository, cache cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, cacheTTL time.Duration) ReportService {
	return &reportService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "item-analysis", Component: "report"}),
		cacheTTL:  cacheTTL,
	}
}

func (s *reportService) Consolidate(ctx context.Context, userID string, filter repositories.ReportFilter) (report *models.ConsolidatedData, err error) {
	op := s.opLog.WithOperation(ctx, "report.consolidate", userID)
	defer func() { op.LogResult(filter.ExamTitle, "report", err) }()

	if !filter.IsComplete() {
		return nil, ErrReportFilterIncomplete
	}
	filter = filter.Normalized()
	key := cache.ReportCacheKey(userID, filter.GradeLevel, filter.Subject, filter.ExamTitle)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	ids, err := s.repo.Session().FindByExam(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoMatchingSessions
	}

	sessions, err := s.loadSessions(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	report, err = analysis.Aggregate(sessions)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache consolidated report", "key", key, "error", err)
		}
	}

	publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventReportConsolidated, userID, events.ReportConsolidatedEvent{
		GradeLevel:    report.GradeLevel,
		Subject:       report.Subject,
		ExamTitle:     report.ExamTitle,
		SessionCount:  len(sessions),
		TotalStudents: report.TotalStudents,
		OverallMPS:    report.OverallMPS,
	}))

	return report, nil
}

func (s *reportService) fromCache(ctx context.Context, key string) (*models.ConsolidatedData, bool) {
	if s.cache == nil {
		return nil, false
	}
	var report models.ConsolidatedData
	err := s.cache.Get(ctx, key, &report)
	if err == nil {
		return &report, true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Report cache unavailable", "key", key, "error", err)
	}
	return nil, false
}

// loadSessions reads every session concurrently and keeps the id order.
// The first failure cancels the remaining reads.
func (s *reportService) loadSessions(ctx context.Context, userID string, ids []string) ([]*models.SessionData, error) {
	sessions := make([]*models.SessionData, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, id := range ids {
		g.Go(func() error {
			data, err := s.repo.Session().Load(gctx, userID, id)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", id, err)
			}
			sessions[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sessions, nil
}
