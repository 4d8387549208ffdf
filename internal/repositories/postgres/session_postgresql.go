package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/models"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, userID string, data *models.SessionData) (string, error) {
	row, err := newSessionRow(uuid.NewString(), userID, data)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

// Save overwrites the session when it exists and creates it under the given
// id otherwise. A session id owned by another user is reported as not found.
func (s *SessionPostgreSQL) Save(ctx context.Context, userID, sessionID string, data *models.SessionData) error {
	row, err := newSessionRow(sessionID, userID, data)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Session
		err := tx.Select("id", "user_id").Where("id = ?", sessionID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(row).Error
		case err != nil:
			return err
		case existing.UserID != userID:
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Session{}).
			Where("id = ? AND user_id = ?", sessionID, userID).
			Updates(map[string]interface{}{
				"title":         row.Title,
				"subject":       row.Subject,
				"grade_level":   row.GradeLevel,
				"exam_title":    row.ExamTitle,
				"section":       row.Section,
				"school":        row.School,
				"school_year":   row.SchoolYear,
				"payload":       row.Payload,
				"last_modified": time.Now().UTC(),
			}).Error
	})
}

func (s *SessionPostgreSQL) Load(ctx context.Context, userID, sessionID string) (*models.SessionData, error) {
	var row models.Session
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Take(&row).Error; err != nil {
		return nil, err
	}

	return decodeSessionRow(&row)
}

// decodeSessionRow rebuilds the document; lastModified always comes from
// the row, never from the payload.
func decodeSessionRow(row *models.Session) (*models.SessionData, error) {
	var data models.SessionData
	if err := json.Unmarshal(row.Payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", row.ID, err)
	}
	lastModified := row.LastModified
	data.LastModified = &lastModified

	return &data, nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, userID string) ([]models.SessionInfo, error) {
	var rows []models.Session
	if err := s.db.WithContext(ctx).
		Select("id", "title", "last_modified", "subject", "grade_level", "section", "school_year").
		Where("user_id = ?", userID).
		Order("last_modified DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	infos := make([]models.SessionInfo, len(rows))
	for i, row := range rows {
		infos[i] = models.SessionInfo{
			ID:           row.ID,
			Title:        row.Title,
			LastModified: row.LastModified,
			Subject:      row.Subject,
			GradeLevel:   row.GradeLevel,
			Section:      row.Section,
			SchoolYear:   row.SchoolYear,
		}
	}
	return infos, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *SessionPostgreSQL) Delete(ctx context.Context, userID, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.Session{}).Error
}

func (s *SessionPostgreSQL) FindByExam(ctx context.Context, userID string, filter repositories.ReportFilter) ([]string, error) {
	filter = filter.Normalized()

	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("user_id = ? AND grade_level = ? AND subject = ? AND exam_title = ?",
			userID, filter.GradeLevel, filter.Subject, filter.ExamTitle).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func newSessionRow(id, userID string, data *models.SessionData) (*models.Session, error) {
	doc := *data
	doc.LastModified = nil
	payload, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	meta := data.Metadata
	return &models.Session{
		ID:         id,
		UserID:     userID,
		Title:      data.Title(),
		Subject:    strings.TrimSpace(meta.Subject),
		GradeLevel: strings.TrimSpace(meta.GradeLevel),
		ExamTitle:  strings.TrimSpace(meta.ExamTitle),
		Section:    meta.Section,
		School:     meta.School,
		SchoolYear: meta.SchoolYear,
		Payload:    datatypes.JSON(payload),
	}, nil
}
