package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/item-analysis-service/internal/analysis"
	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
)

type analysisService struct {
	sessions  SessionService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
}

func NewAnalysisService(sessions SessionService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AnalysisService {
	return &analysisService{
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "item-analysis", Component: "analysis"}),
		validator: validator,
	}
}

// Run analyses the given grid without touching the store
func (s *analysisService) Run(ctx context.Context, userID string, data *models.SessionData) (resp *AnalysisResponse, err error) {
	op := s.opLog.WithOperation(ctx, "analysis.run", userID)
	defer func() { op.LogResult("", "analysis", err) }()

	if err = s.validator.Validate(&data.Metadata); err != nil {
		return nil, err
	}
	if errs := s.validator.Business().ValidateStudents(data.Students); len(errs) > 0 {
		return nil, errs
	}

	resp, err = s.analyze(data)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, userID, resp)
	return resp, nil
}

// AnalyzeSession recomputes a stored session and saves the results back
func (s *analysisService) AnalyzeSession(ctx context.Context, userID, sessionID string) (resp *AnalysisResponse, err error) {
	op := s.opLog.WithOperation(ctx, "analysis.session", userID)
	defer func() { op.LogResult(sessionID, "session", err) }()

	data, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err = s.analyze(data)
	if err != nil {
		return nil, err
	}
	data.AnalysisResults = resp.Results

	if _, err = s.sessions.Save(ctx, userID, sessionID, data); err != nil {
		return nil, err
	}

	resp.SessionID = sessionID
	s.announce(ctx, userID, resp)
	return resp, nil
}

func (s *analysisService) analyze(data *models.SessionData) (*AnalysisResponse, error) {
	results, err := analysis.Analyze(&data.Metadata, data.Students)
	if err != nil {
		return nil, err
	}

	return &AnalysisResponse{
		Metadata: data.Metadata,
		Students: data.Students,
		Results:  results,
		Summary:  analysis.Summarize(data.Metadata, results),
	}, nil
}

func (s *analysisService) announce(ctx context.Context, userID string, resp *AnalysisResponse) {
	publish(ctx, s.publisher, s.logger, events.NewEvent(events.EventAnalysisCompleted, userID, events.AnalysisCompletedEvent{
		SessionID:     resp.SessionID,
		TotalItems:    resp.Summary.TotalItems,
		TestTakers:    resp.Summary.TestTakers,
		MeanMPS:       resp.Summary.MeanMPS,
		MasteredItems: resp.Summary.Interpretation[models.Mastered],
	}))
}
