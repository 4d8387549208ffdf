package models

import "time"

type ImportJobStatus string

const (
	ImportCompleted        ImportJobStatus = "completed"
	ImportValidationFailed ImportJobStatus = "validation_failed"
)

// ImportResult is returned when a score sheet is parsed into students.
type ImportResult struct {
	FileName       string                  `json:"fileName"`
	TotalRows      int                     `json:"totalRows"`
	SuccessCount   int                     `json:"successCount"`
	ErrorCount     int                     `json:"errorCount"`
	TotalItems     int                     `json:"totalItems"`
	Students       []*Student              `json:"students"`
	Errors         []ImportValidationError `json:"errors"`
	Status         ImportJobStatus         `json:"status"`
	ProcessingTime time.Duration           `json:"processingTime"`
}

type ImportValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}
