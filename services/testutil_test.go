package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"learnhub/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.ChapterProgress{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seedCourse(t *testing.T, db *gorm.DB, userID uint, chapters int) *models.Course {
	t.Helper()

	course := models.Course{
		UserID:     userID,
		Title:      "Test Course",
		Topic:      "Testing",
		Status:     "published",
		Difficulty: "beginner",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	for i := 0; i < chapters; i++ {
		chapter := models.Chapter{
			CourseID:      course.ID,
			Title:         fmt.Sprintf("Chapter %d", i+1),
			SequenceOrder: i + 1,
		}
		if err := db.Create(&chapter).Error; err != nil {
			t.Fatalf("seed chapter: %v", err)
		}
		course.Chapters = append(course.Chapters, chapter)
	}

	return &course
}

func completeChapters(t *testing.T, db *gorm.DB, userID uint, course *models.Course, n int) {
	t.Helper()

	tracker := NewProgressTracker(db)
	for i := 0; i < n; i++ {
		if _, err := tracker.MarkCompleted(userID, course.Chapters[i].ID); err != nil {
			t.Fatalf("mark completed: %v", err)
		}
	}
}
