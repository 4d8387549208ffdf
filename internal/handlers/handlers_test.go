package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUser = "teacher-1"

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(DevUserHeader, testUser)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer()

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "item-analysis-service")
}

func TestRoutes_RequireUser(t *testing.T) {
	ts := newTestServer()

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	ts.session.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSessionHandler_CreateSession(t *testing.T) {
	ts := newTestServer()
	ts.session.On("Create", mock.Anything, testUser, mock.MatchedBy(func(d *models.SessionData) bool {
		return d.Metadata.Subject == "Mathematics" && d.Metadata.TotalItems == 2
	})).Return("session-1", nil)

	w := ts.do(http.MethodPost, "/api/v1/sessions", models.SessionData{
		Metadata: models.TestMetadata{Subject: "Mathematics", TotalItems: 2, AnswerKey: []string{"A", "B"}},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SessionCreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.ID)
	ts.session.AssertExpectations(t)
}

func TestSessionHandler_CreateSession_InvalidJSON(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString("{not json"))
	req.Header.Set(DevUserHeader, testUser)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ts.session.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_CreateSession_ValidationFailure(t *testing.T) {
	ts := newTestServer()
	ts.session.On("Create", mock.Anything, testUser, mock.Anything).
		Return("", services.ValidationErrors{*services.NewValidationError("totalItems", "must be at most 500", 900)})

	w := ts.do(http.MethodPost, "/api/v1/sessions", models.SessionData{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", decodeError(t, w).Code)
}

func TestSessionHandler_ListSessions(t *testing.T) {
	ts := newTestServer()
	ts.session.On("List", mock.Anything, testUser).Return([]models.SessionInfo{
		{ID: "s2", Title: "Second Quarter Exam", LastModified: time.Now()},
		{ID: "s1", Title: "First Quarter Exam", LastModified: time.Now().Add(-time.Hour)},
	}, nil)

	w := ts.do(http.MethodGet, "/api/v1/sessions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var infos []models.SessionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "s2", infos[0].ID)
}

func TestSessionHandler_GetSession_NotFound(t *testing.T) {
	ts := newTestServer()
	ts.session.On("Load", mock.Anything, testUser, "missing").Return(nil, services.ErrSessionNotFound)

	w := ts.do(http.MethodGet, "/api/v1/sessions/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", decodeError(t, w).Code)
}

func TestSessionHandler_UpdateSession(t *testing.T) {
	ts := newTestServer()
	ts.session.On("Save", mock.Anything, testUser, "s1", mock.Anything).Return("s1", nil)

	w := ts.do(http.MethodPut, "/api/v1/sessions/s1", models.SessionData{})

	assert.Equal(t, http.StatusOK, w.Code)
	ts.session.AssertExpectations(t)
}

func TestSessionHandler_DeleteSession(t *testing.T) {
	ts := newTestServer()
	ts.session.On("Delete", mock.Anything, testUser, "s1").Return(nil)

	w := ts.do(http.MethodDelete, "/api/v1/sessions/s1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionHandler_RestoreSession(t *testing.T) {
	t.Run("without body reads the stored directory", func(t *testing.T) {
		ts := newTestServer()
		ts.session.On("Restore", mock.Anything, testUser, "s1", (*services.DirectorySnapshot)(nil)).
			Return(&services.WorkingState{SessionID: "s1", ActiveTab: services.TabSetup}, nil)

		w := ts.do(http.MethodPost, "/api/v1/sessions/s1/restore", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var state services.WorkingState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, services.TabSetup, state.ActiveTab)
	})

	t.Run("with the client's directory", func(t *testing.T) {
		ts := newTestServer()
		ts.session.On("Restore", mock.Anything, testUser, "s1", mock.MatchedBy(func(d *services.DirectorySnapshot) bool {
			return d != nil && len(d.Schools) == 1 && d.Schools[0].Name == "Rizal High"
		})).Return(&services.WorkingState{SessionID: "s1", ActiveTab: services.TabResults}, nil)

		w := ts.do(http.MethodPost, "/api/v1/sessions/s1/restore", services.DirectorySnapshot{
			Schools: []models.School{{ID: "school-1", Name: "Rizal High"}},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		ts.session.AssertExpectations(t)
	})
}

func TestSessionHandler_AnalyzeSession_NoStudents(t *testing.T) {
	ts := newTestServer()
	ts.analysis.On("AnalyzeSession", mock.Anything, testUser, "s1").Return(nil, services.ErrNoStudents)

	w := ts.do(http.MethodPost, "/api/v1/sessions/s1/analyze", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "no_students", decodeError(t, w).Code)
}

func TestSessionHandler_ExportSession(t *testing.T) {
	ts := newTestServer()
	ts.importExport.On("ExportSession", mock.Anything, testUser, "s1").Return([]byte("PK-workbook"), nil)

	w := ts.do(http.MethodGet, "/api/v1/sessions/s1/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "item-analysis-s1.xlsx")
	assert.Equal(t, "PK-workbook", w.Body.String())
}

func TestSessionHandler_ImportScoreSheet(t *testing.T) {
	ts := newTestServer()
	ts.importExport.On("ImportScoreSheet", mock.Anything, mock.Anything, "scores.csv", 4).
		Return(&models.ImportResult{FileName: "scores.csv", SuccessCount: 1, Status: models.ImportCompleted}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "scores.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID,Name,1,2,3,4\ns1,Ana,A,B,C,D\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("total_items", "4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/import", &body)
	req.Header.Set(DevUserHeader, testUser)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ts.importExport.AssertExpectations(t)
}

func TestSessionHandler_ImportScoreSheet_MissingFile(t *testing.T) {
	ts := newTestServer()

	w := ts.do(http.MethodPost, "/api/v1/sessions/import", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisHandler_RunAnalysis(t *testing.T) {
	ts := newTestServer()
	ts.analysis.On("Run", mock.Anything, testUser, mock.Anything).Return(&services.AnalysisResponse{
		Results: []models.ItemAnalysisResult{{ItemNumber: 1}},
	}, nil)

	w := ts.do(http.MethodPost, "/api/v1/analysis", models.SessionData{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analysisResults")
}

func TestAnalysisHandler_RunAnalysis_EmptyStudentEntry(t *testing.T) {
	ts := newTestServer()
	ts.analysis.On("Run", mock.Anything, testUser, mock.Anything).Return(nil, services.ErrEmptyStudent)

	w := ts.do(http.MethodPost, "/api/v1/analysis", models.SessionData{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty_student", decodeError(t, w).Code)
}

func TestReportHandler_GetConsolidatedReport(t *testing.T) {
	filter := repositories.ReportFilter{GradeLevel: "Grade 7", Subject: "Mathematics", ExamTitle: "First Quarter Exam"}
	report := &models.ConsolidatedData{GradeLevel: "Grade 7", Subject: "Mathematics", ExamTitle: "First Quarter Exam", OverallMPS: 75}
	path := "/api/v1/reports/consolidated?grade=Grade+7&subject=Mathematics&exam=First+Quarter+Exam"

	t.Run("json", func(t *testing.T) {
		ts := newTestServer()
		ts.report.On("Consolidate", mock.Anything, testUser, filter).Return(report, nil)

		w := ts.do(http.MethodGet, path, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got models.ConsolidatedData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 75.0, got.OverallMPS)
	})

	t.Run("xlsx", func(t *testing.T) {
		ts := newTestServer()
		ts.report.On("Consolidate", mock.Anything, testUser, filter).Return(report, nil)
		ts.importExport.On("ExportConsolidated", mock.Anything, report).Return([]byte("PK"), nil)

		w := ts.do(http.MethodGet, path+"&format=xlsx", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "consolidated-Grade_7_Mathematics_First_Quarter_Exam.xlsx")
	})

	t.Run("incomplete filter", func(t *testing.T) {
		ts := newTestServer()
		ts.report.On("Consolidate", mock.Anything, testUser, mock.Anything).Return(nil, services.ErrReportFilterIncomplete)

		w := ts.do(http.MethodGet, "/api/v1/reports/consolidated?grade=Grade+7", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "report_filter_incomplete", decodeError(t, w).Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do(http.MethodGet, path+"&format=pdf", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.report.AssertNotCalled(t, "Consolidate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mixed item counts", func(t *testing.T) {
		ts := newTestServer()
		ts.report.On("Consolidate", mock.Anything, testUser, filter).Return(nil, services.ErrMixedItemCounts)

		w := ts.do(http.MethodGet, path, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestProgressHandler_AddProgressRecord(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ts := newTestServer()
		ts.progress.On("Add", mock.Anything, testUser, "stu-1", mock.MatchedBy(func(r *services.ProgressRecordRequest) bool {
			return r.TestName == "Quiz 1" && r.Score == 8 && r.TotalItems == 10
		})).Return(&models.ProgressRecord{ID: "rec-1", StudentID: "stu-1", TestName: "Quiz 1", Score: 8, TotalItems: 10}, nil)

		w := ts.do(http.MethodPost, "/api/v1/students/stu-1/progress", services.ProgressRecordRequest{
			TestName: "Quiz 1", Score: 8, TotalItems: 10,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		ts.progress.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		ts := newTestServer()
		ts.progress.On("Add", mock.Anything, testUser, "stu-1", mock.Anything).Return(nil, services.ErrProgressRecordExists)

		w := ts.do(http.MethodPost, "/api/v1/students/stu-1/progress", services.ProgressRecordRequest{TestName: "Quiz 1"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestProgressHandler_ListProgressRecords(t *testing.T) {
	ts := newTestServer()
	ts.progress.On("ListByStudent", mock.Anything, testUser, "stu-1").Return([]*models.ProgressRecord{}, nil)

	w := ts.do(http.MethodGet, "/api/v1/students/stu-1/progress", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestProgressHandler_DeleteProgressRecord(t *testing.T) {
	ts := newTestServer()
	ts.progress.On("Delete", mock.Anything, testUser, "stu-1", "rec-1").Return(nil)
	ts.progress.On("Delete", mock.Anything, testUser, "stu-1", "gone").Return(services.ErrProgressRecordNotFound)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodDelete, "/api/v1/students/stu-1/progress/rec-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/v1/students/stu-1/progress/gone", nil).Code)
}

func TestProgressHandler_RecordSessionProgress(t *testing.T) {
	ts := newTestServer()
	ts.progress.On("RecordFromSession", mock.Anything, testUser, "s1").Return(nil, services.ErrSessionNotAnalyzed)

	w := ts.do(http.MethodPost, "/api/v1/sessions/s1/progress", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "session_not_analyzed", decodeError(t, w).Code)
}

func TestHandleServiceError_Unexpected(t *testing.T) {
	ts := newTestServer()
	ts.session.On("List", mock.Anything, testUser).Return(nil, errors.New("connection refused"))

	w := ts.do(http.MethodGet, "/api/v1/sessions", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
