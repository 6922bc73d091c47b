package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MoodService struct{ db *gorm.DB }

func NewMoodService(db *gorm.DB) *MoodService { return &MoodService{db: db} }

// ValidateMood enforces the record rules: date present and well formed,
// mood one of the six categories.
func ValidateMood(date, mood string) error {
	if date == "" || mood == "" {
		return apperr.Validation("date and mood are required")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	if !model.ValidMood(mood) {
		return apperr.Validation("unknown mood %q", mood)
	}
	return nil
}

// List returns every record for the user, newest date first.
func (s *MoodService) List(ctx context.Context, userID string) ([]model.MoodRecord, error) {
	records := []model.MoodRecord{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	return records, nil
}

// Upsert inserts or updates the record keyed on (user_id, date). At most
// one record per day ever exists.
func (s *MoodService) Upsert(ctx context.Context, userID, date, mood, note string) error {
	if err := ValidateMood(date, mood); err != nil {
		return err
	}

	var existing model.MoodRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&model.MoodRecord{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   date,
			Mood:   mood,
			Note:   note,
		}).Error
	}
	if err != nil {
		return fmt.Errorf("query mood: %w", err)
	}

	return s.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"mood": mood,
		"note": note,
	}).Error
}

// Delete removes the record for (user_id, date). Deleting an absent record
// is not an error.
func (s *MoodService) Delete(ctx context.Context, userID, date string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&model.MoodRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete mood: %w", err)
	}
	return nil
}
