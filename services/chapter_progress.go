package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/models"
)

// ProgressTracker reads and writes one user's completion state for one
// chapter. Uniqueness on (user_id, chapter_id) is enforced by the
// database; every mutation is an insert-or-update against that key.
// Storage errors are returned as-is: a dropped completion event must not
// be masked.
type ProgressTracker struct {
	DB *gorm.DB
}

func NewProgressTracker(db *gorm.DB) *ProgressTracker {
	return &ProgressTracker{DB: db}
}

func (t *ProgressTracker) MarkCompleted(userID, chapterID uint) (*models.ChapterProgress, error) {
	return t.upsert(userID, chapterID, true, []string{"completed", "updated_at"})
}

func (t *ProgressTracker) MarkIncomplete(userID, chapterID uint) (*models.ChapterProgress, error) {
	return t.upsert(userID, chapterID, false, []string{"completed", "updated_at"})
}

// UpdateAccess touches updated_at without changing completion. The row is
// created with completed=false when the user has never touched the chapter.
func (t *ProgressTracker) UpdateAccess(userID, chapterID uint) (*models.ChapterProgress, error) {
	return t.upsert(userID, chapterID, false, []string{"updated_at"})
}

// GetProgress returns the stored record, or a default (not completed, no
// timestamps) when none exists. A missing row is not an error.
func (t *ProgressTracker) GetProgress(userID, chapterID uint) (*models.ChapterProgress, error) {
	var row models.ChapterProgress
	err := t.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ChapterProgress{UserID: userID, ChapterID: chapterID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *ProgressTracker) upsert(userID, chapterID uint, completed bool, updates []string) (*models.ChapterProgress, error) {
	row := models.ChapterProgress{
		UserID:    userID,
		ChapterID: chapterID,
		Completed: completed,
		UpdatedAt: time.Now().UTC(),
	}
	err := t.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the stored row, not the candidate insert
	// (UpdateAccess on an existing completed row must keep completed=true).
	var stored models.ChapterProgress
	if err := t.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
