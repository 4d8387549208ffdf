package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
	"github.com/google/uuid"
)

type progressService struct {
	repo      repositories.Repository
	sessions  SessionService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
}

func NewProgressService(repo repositories.Repository, sessions SessionService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ProgressService {
	return &progressService{
		repo:      repo,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "item-analysis", Component: "progress"}),
		validator: validator,
	}
}

func (s *progressService) Add(ctx context.Context, ownerID, studentID string, req *ProgressRecordRequest) (record *models.ProgressRecord, err error) {
	op := s.opLog.WithOperation(ctx, "progress.add", ownerID)
	defer func() { op.LogResult(studentID, "progress_record", err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	record = &models.ProgressRecord{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		OwnerID:    ownerID,
		Date:       date,
		TestName:   strings.TrimSpace(req.TestName),
		Score:      req.Score,
		TotalItems: req.TotalItems,
	}
	if err = s.insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *progressService) ListByStudent(ctx context.Context, ownerID, studentID string) ([]*models.ProgressRecord, error) {
	records, err := s.repo.Progress().ListByStudent(ctx, ownerID, studentID, repositories.ProgressFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load progress history: %w", err)
	}
	if records == nil {
		records = []*models.ProgressRecord{}
	}
	return records, nil
}

func (s *progressService) Delete(ctx context.Context, ownerID, studentID, recordID string) (err error) {
	op := s.opLog.WithOperation(ctx, "progress.delete", ownerID)
	defer func() { op.LogResult(recordID, "progress_record", err) }()

	if err = s.repo.Progress().Delete(ctx, ownerID, studentID, recordID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProgressRecordNotFound
		}
		return fmt.Errorf("failed to delete progress record: %w", err)
	}
	return nil
}

// RecordFromSession appends one history entry per student of an analysed
// session. Students that already have an entry for this test are skipped.
func (s *progressService) RecordFromSession(ctx context.Context, userID, sessionID string) (result *RecordFromSessionResult, err error) {
	op := s.opLog.WithOperation(ctx, "progress.record_session", userID)
	defer func() { op.LogResult(sessionID, "session", err) }()

	data, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(data.AnalysisResults) == 0 {
		return nil, ErrSessionNotAnalyzed
	}

	result = &RecordFromSessionResult{
		Recorded: []*models.ProgressRecord{},
		Skipped:  []string{},
	}
	date := time.Now().UTC()
	testName := data.Title()

	for _, student := range data.Students {
		record := &models.ProgressRecord{
			ID:         uuid.NewString(),
			StudentID:  student.ID,
			OwnerID:    userID,
			Date:       date,
			TestName:   testName,
			Score:      student.Score(),
			TotalItems: data.Metadata.TotalItems,
		}
		if err := s.insert(ctx, record); err != nil {
			if IsConflict(err) || IsValidation(err) {
				result.Skipped = append(result.Skipped, student.ID)
				continue
			}
			return nil, err
		}
		result.Recorded = append(result.Recorded, record)
	}

	return result, nil
}

func (s *progressService) insert(ctx context.Context, record *models.ProgressRecord) error {
	if errs := s.validator.ValidateBusiness(record); len(errs) > 0 {
		return errs
	}

	if err := s.repo.Progress().Add(ctx, record); err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrProgressRecordExists
		}
		return fmt.Errorf("failed to add progress record: %w", err)
	}

	publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventProgressRecorded, record.OwnerID, events.ProgressRecordedEvent{
		StudentID: record.StudentID,
		RecordID:  record.ID,
		TestName:  record.TestName,
		Score:     record.Score,
	}))
	return nil
}
