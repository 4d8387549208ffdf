package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/analysis"
	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetItemAnalysis = "Item Analysis"
	SheetStudents     = "Students"
	SheetSchools      = "Schools"
	SheetCompetencies = "Competencies"
)

const maxAnswerLength = 8

type importExportService struct {
	sessions SessionService
	logger   *slog.Logger
}

func NewImportExportService(sessions SessionService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		sessions: sessions,
		logger:   logger,
	}
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportScoreSheet(ctx context.Context, reader io.Reader, filename string, totalItems int) (*models.ImportResult, error) {
	s.logger.Info("Starting score sheet import", "filename", filename, "total_items", totalItems)

	var (
		result *models.ImportResult
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		result, err = s.ImportScoreSheetFromCSV(ctx, reader, totalItems)
	case ".xlsx":
		result, err = s.ImportScoreSheetFromExcel(ctx, reader, totalItems)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	result.FileName = filename
	return result, nil
}

func (s *importExportService) ImportScoreSheetFromCSV(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.parseScoreSheet(records, totalItems, "CSV")
}

func (s *importExportService) ImportScoreSheetFromExcel(ctx context.Context, reader io.Reader, totalItems int) (*models.ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.parseScoreSheet(rows, totalItems, "Excel")
}

// scoreSheetLayout maps header columns: "ID", "Name" and one numbered
// column per item ("1", "2", ...).
type scoreSheetLayout struct {
	idCol   int
	nameCol int
	items   map[int]int // item index -> column
	count   int
}

func parseScoreSheetHeader(headers []string) (*scoreSheetLayout, error) {
	layout := &scoreSheetLayout{idCol: -1, nameCol: -1, items: make(map[int]int)}

	for col, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		switch h {
		case "id":
			layout.idCol = col
			continue
		case "name":
			layout.nameCol = col
			continue
		}
		n, err := strconv.Atoi(h)
		if err != nil || n < 1 || n > validator.MaxTotalItems {
			continue
		}
		layout.items[n-1] = col
		if n > layout.count {
			layout.count = n
		}
	}

	if layout.nameCol < 0 {
		return nil, NewValidationError("headers", "missing required column: name", "name")
	}
	if layout.count == 0 {
		return nil, NewValidationError("headers", "no numbered item columns found", nil)
	}
	return layout, nil
}

func (s *importExportService) parseScoreSheet(records [][]string, totalItems int, source string) (*models.ImportResult, error) {
	start := time.Now()

	if len(records) < 2 {
		return nil, NewValidationError("file", "sheet must have header row and at least one data row", len(records))
	}

	layout, err := parseScoreSheetHeader(records[0])
	if err != nil {
		return nil, err
	}
	if totalItems <= 0 {
		totalItems = layout.count
	}

	result := &models.ImportResult{
		TotalRows:  len(records) - 1,
		TotalItems: totalItems,
		Students:   []*models.Student{},
		Errors:     []models.ImportValidationError{},
	}

	for rowIndex, record := range records[1:] {
		if isBlankRow(record) {
			result.TotalRows--
			continue
		}
		student, rowErrors := parseScoreSheetRow(record, layout, rowIndex+2, totalItems)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		result.Students = append(result.Students, student)
		result.SuccessCount++
	}

	result.Status = models.ImportCompleted
	if result.SuccessCount == 0 && result.ErrorCount > 0 {
		result.Status = models.ImportValidationFailed
	}
	result.ProcessingTime = time.Since(start)

	s.logger.Info(source+" score sheet import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount,
		"total_items", totalItems)

	return result, nil
}

func parseScoreSheetRow(record []string, layout *scoreSheetLayout, rowNum, totalItems int) (*models.Student, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	name := cellAt(record, layout.nameCol)
	if name == "" {
		errs = append(errs, models.ImportValidationError{
			Row:     rowNum,
			Column:  "Name",
			Message: "student name is required",
			Code:    "required",
		})
	}

	id := cellAt(record, layout.idCol)
	if id == "" {
		id = uuid.NewString()
	}

	answers := make([]string, totalItems)
	for i := 0; i < totalItems; i++ {
		col, ok := layout.items[i]
		if !ok {
			continue
		}
		answer := strings.ToUpper(cellAt(record, col))
		if len(answer) > maxAnswerLength {
			errs = append(errs, models.ImportValidationError{
				Row:     rowNum,
				Column:  strconv.Itoa(i + 1),
				Message: "answer is too long",
				Value:   answer,
				Code:    "answer_letter",
			})
			continue
		}
		answers[i] = answer
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Student{
		ID:              id,
		Name:            name,
		StudentAnswers:  answers,
		Responses:       make([]int, totalItems),
		ProgressHistory: []models.ProgressRecord{},
	}, nil
}

func cellAt(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ===== EXPORT OPERATIONS =====

// ExportSession writes the item analysis of a stored session. Sessions that
// were never analysed are analysed on the fly; nothing is saved.
func (s *importExportService) ExportSession(ctx context.Context, userID, sessionID string) ([]byte, error) {
	data, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	results := data.AnalysisResults
	if len(results) == 0 {
		results, err = analysis.Analyze(&data.Metadata, data.Students)
		if err != nil {
			return nil, err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeItemAnalysisSheet(f, data, results); err != nil {
		return nil, err
	}
	if err := writeStudentsSheet(f, data); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func (s *importExportService) ExportConsolidated(ctx context.Context, report *models.ConsolidatedData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSchoolsSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeCompetenciesSheet(f, report); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func writeItemAnalysisSheet(f *excelize.File, data *models.SessionData, results []models.ItemAnalysisResult) error {
	meta := data.Metadata
	summary := analysis.Summarize(meta, results)

	rows := [][]interface{}{
		{"Exam", data.Title()},
		{"School", meta.School},
		{"Grade / Section", strings.TrimSpace(meta.GradeLevel + " " + meta.Section)},
		{"Subject", meta.Subject},
		{"Test Takers", meta.TestTakers},
		{"Mean MPS", analysis.RoundMPS(summary.MeanMPS)},
		{},
		{"Item", "Competency", "Correct", "MPS", "Interpretation", "Difficulty"},
	}
	for _, r := range results {
		rows = append(rows, []interface{}{
			r.ItemNumber, r.Competency, r.TotalCorrect, analysis.RoundMPS(r.MPS), string(r.Interpretation), string(r.Difficulty),
		})
	}
	return writeSheet(f, SheetItemAnalysis, rows, true)
}

func writeStudentsSheet(f *excelize.File, data *models.SessionData) error {
	header := []interface{}{"ID", "Name", "Score"}
	for i := 1; i <= data.Metadata.TotalItems; i++ {
		header = append(header, i)
	}

	items := data.Metadata.Items()
	rows := [][]interface{}{header}
	for _, student := range data.Students {
		row := []interface{}{student.ID, student.Name, student.Score()}
		for _, cell := range student.Grid(items) {
			row = append(row, cell.Submitted)
		}
		rows = append(rows, row)
	}
	return writeSheet(f, SheetStudents, rows, false)
}

func writeSchoolsSheet(f *excelize.File, report *models.ConsolidatedData) error {
	rows := [][]interface{}{
		{"Grade", report.GradeLevel},
		{"Subject", report.Subject},
		{"Exam", report.ExamTitle},
		{"Overall MPS", analysis.RoundMPS(report.OverallMPS)},
		{},
		{"School", "Section", "Students", "MPS"},
	}
	for _, school := range report.Schools {
		rows = append(rows, []interface{}{school.Name, "", school.TotalStudents, analysis.RoundMPS(school.MPS)})
		for _, section := range school.Sections {
			rows = append(rows, []interface{}{"", section.Name, section.StudentCount, analysis.RoundMPS(section.MPS)})
		}
	}
	return writeSheet(f, SheetSchools, rows, true)
}

func writeCompetenciesSheet(f *excelize.File, report *models.ConsolidatedData) error {
	rows := [][]interface{}{{"Item", "Competency", "Correct", "Responses", "MPS", "Interpretation"}}
	for _, c := range report.Competencies {
		rows = append(rows, []interface{}{
			c.ItemNumber, c.Competency, c.TotalCorrect, c.TotalResponses, analysis.RoundMPS(c.MPS), string(c.Interpretation),
		})
	}
	return writeSheet(f, SheetCompetencies, rows, false)
}

// writeSheet fills a sheet row by row. The first sheet of a workbook takes
// over the default "Sheet1" so no empty sheet is left behind.
func writeSheet(f *excelize.File, sheetName string, rows [][]interface{}, first bool) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
			return fmt.Errorf("failed to name Excel sheet %s: %w", sheetName, err)
		}
	} else if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create Excel sheet %s: %w", sheetName, err)
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheetName, err)
		}
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
