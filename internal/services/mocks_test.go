package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/item-analysis-service/internal/cache"
	"github.com/SAP-F-2025/item-analysis-service/internal/events"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// ===== REPOSITORY MOCKS =====

type MockRepository struct {
	session   *MockSessionRepository
	directory *MockDirectoryRepository
	progress  *MockProgressRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		session:   new(MockSessionRepository),
		directory: new(MockDirectoryRepository),
		progress:  new(MockProgressRepository),
	}
}

func (m *MockRepository) Session() repositories.SessionRepository     { return m.session }
func (m *MockRepository) Directory() repositories.DirectoryRepository { return m.directory }
func (m *MockRepository) Progress() repositories.ProgressRepository   { return m.progress }

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, userID string, data *models.SessionData) (string, error) {
	args := m.Called(ctx, userID, data)
	return args.String(0), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, userID, sessionID string, data *models.SessionData) error {
	args := m.Called(ctx, userID, sessionID, data)
	return args.Error(0)
}

func (m *MockSessionRepository) Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionData), args.Error(1)
}

func (m *MockSessionRepository) List(ctx context.Context, userID string) ([]models.SessionInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionInfo), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByExam(ctx context.Context, userID string, filter repositories.ReportFilter) ([]string, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) ListSchools(ctx context.Context) ([]models.School, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.School), args.Error(1)
}

func (m *MockDirectoryRepository) ListClasses(ctx context.Context, ownerID string) ([]models.Class, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Class), args.Error(1)
}

func (m *MockDirectoryRepository) ListStudents(ctx context.Context, ownerID string) ([]models.DirectoryStudent, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.DirectoryStudent), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Add(ctx context.Context, record *models.ProgressRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressRepository) ListByStudent(ctx context.Context, ownerID, studentID string, filters repositories.ProgressFilters) ([]*models.ProgressRecord, error) {
	args := m.Called(ctx, ownerID, studentID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Delete(ctx context.Context, ownerID, studentID, recordID string) error {
	args := m.Called(ctx, ownerID, studentID, recordID)
	return args.Error(0)
}

// ===== TEST FIXTURES =====

type testEnv struct {
	repo      *MockRepository
	cache     cache.CacheService
	redis     *miniredis.Miniredis
	publisher *events.MockEventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &testEnv{
		repo:      newMockRepository(),
		cache:     cache.NewRedisCache(client, logger),
		redis:     server,
		publisher: events.NewMockEventPublisher(logger),
		logger:    logger,
		validator: validator.New(),
	}
}

func (e *testEnv) sessionService() SessionService {
	return NewSessionService(e.repo, e.cache, e.publisher, e.logger, e.validator)
}

func (e *testEnv) eventTypes() []events.EventType {
	var types []events.EventType
	for _, ev := range e.publisher.GetPublishedEvents() {
		types = append(types, ev.Type)
	}
	return types
}

// sampleSession is a 3-student, 4-item grade 7 math session.
func sampleSession(school, section string) *models.SessionData {
	return &models.SessionData{
		Metadata: models.TestMetadata{
			School:       school,
			GradeLevel:   "Grade 7",
			Section:      section,
			Subject:      "Mathematics",
			ExamTitle:    "First Quarter Exam",
			TotalItems:   4,
			AnswerKey:    []string{"A", "B", "C", "D"},
			Competencies: []string{"Fractions", "Decimals", "Ratios", "Percent"},
		},
		Students: []*models.Student{
			{ID: "s1", Name: "Ana", StudentAnswers: []string{"A", "B", "C", "D"}},
			{ID: "s2", Name: "Ben", StudentAnswers: []string{"A", "B", "", "A"}},
			{ID: "s3", Name: "Cy", StudentAnswers: []string{"A", "C", "C", "B"}},
		},
	}
}
