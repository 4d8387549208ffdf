package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/item-analysis-service/internal/cache"
	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
	"golang.org/x/sync/errgroup"
)

type sessionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
}

func NewSessionService(repo repositories.Repository, cache cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "item-analysis", Component: "session"}),
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *sessionService) Create(ctx context.Context, userID string, data *models.SessionData) (id string, err error) {
	op := s.opLog.WithOperation(ctx, "session.create", userID)
	defer func() { op.LogResult(id, "session", err) }()

	doc, err := s.prepare(data)
	if err != nil {
		return "", err
	}

	id, err = s.repo.Session().Create(ctx, userID, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.afterWrite(ctx, userID, events.EventSessionSaved, sessionSavedPayload(id, doc, true))
	return id, nil
}

func (s *sessionService) Save(ctx context.Context, userID, sessionID string, data *models.SessionData) (id string, err error) {
	if sessionID == "" {
		return s.Create(ctx, userID, data)
	}

	op := s.opLog.WithOperation(ctx, "session.save", userID)
	defer func() { op.LogResult(sessionID, "session", err) }()

	doc, err := s.prepare(data)
	if err != nil {
		return "", err
	}

	if err = s.repo.Session().Save(ctx, userID, sessionID, doc); err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	s.afterWrite(ctx, userID, events.EventSessionSaved, sessionSavedPayload(sessionID, doc, false))
	return sessionID, nil
}

func (s *sessionService) Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error) {
	data, err := s.repo.Session().Load(ctx, userID, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return data, nil
}

func (s *sessionService) List(ctx context.Context, userID string) ([]models.SessionInfo, error) {
	infos, err := s.repo.Session().List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if infos == nil {
		infos = []models.SessionInfo{}
	}
	return infos, nil
}

func (s *sessionService) Delete(ctx context.Context, userID, sessionID string) (err error) {
	op := s.opLog.WithOperation(ctx, "session.delete", userID)
	defer func() { op.LogResult(sessionID, "session", err) }()

	if err = s.repo.Session().Delete(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.afterWrite(ctx, userID, events.EventSessionDeleted, events.SessionDeletedEvent{SessionID: sessionID})
	return nil
}

// ===== RESTORE =====

func (s *sessionService) Restore(ctx context.Context, userID, sessionID string, directory *DirectorySnapshot) (*WorkingState, error) {
	data, err := s.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if directory == nil {
		directory, err = s.loadDirectory(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	state := RestoreState(data, directory.Classes, directory.Schools, directory.Students)
	state.SessionID = sessionID

	s.logger.Info("Session restored",
		"session_id", sessionID,
		"user_id", userID,
		"active_tab", state.ActiveTab,
		"recovered_roster", state.RecoveredRoster)

	return state, nil
}

func (s *sessionService) loadDirectory(ctx context.Context, userID string) (*DirectorySnapshot, error) {
	var snapshot DirectorySnapshot
	dir := s.repo.Directory()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		schools, err := dir.ListSchools(gctx)
		snapshot.Schools = schools
		return err
	})
	g.Go(func() error {
		classes, err := dir.ListClasses(gctx, userID)
		snapshot.Classes = classes
		return err
	})
	g.Go(func() error {
		students, err := dir.ListStudents(gctx, userID)
		snapshot.Students = students
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}
	return &snapshot, nil
}

// ===== HELPERS =====

func (s *sessionService) prepare(data *models.SessionData) (*models.SessionData, error) {
	doc := SanitizeForStore(data)
	if err := s.validator.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// afterWrite drops cached reports and announces the change. Neither step
// can fail the write that already succeeded.
func (s *sessionService) afterWrite(ctx context.Context, userID string, eventType events.EventType, payload interface{}) {
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, cache.ReportCachePattern(userID)); err != nil {
			s.logger.Warn("Failed to invalidate report cache", "user_id", userID, "error", err)
		}
	}
	publish(ctx, s.publisher, s.logger, events.NewEvent(eventType, userID, payload))
}

func sessionSavedPayload(id string, doc *models.SessionData, created bool) events.SessionSavedEvent {
	return events.SessionSavedEvent{
		SessionID:  id,
		Title:      doc.Title(),
		GradeLevel: doc.Metadata.GradeLevel,
		Subject:    doc.Metadata.Subject,
		Section:    doc.Metadata.Section,
		Created:    created,
	}
}

func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
