package models

import "time"

// ChapterProgress is the stored completion/access state for one
// (user, chapter) pair. At most one row exists per pair; it is created
// lazily on the first access or completion event and upserted in place
// afterwards. Rows are never deleted.
type ChapterProgress struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_chapter_progress_user_chapter"`
	ChapterID uint      `json:"chapter_id" gorm:"uniqueIndex:idx_chapter_progress_user_chapter"`
	Completed bool      `json:"completed" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseProgressSummary holds the derived chapter counts for one
// (user, course) pair. Never persisted.
type CourseProgressSummary struct {
	CourseID           uint `json:"course_id"`
	TotalChapters      int  `json:"total_chapters"`
	CompletedChapters  int  `json:"completed_chapters"`
	ProgressPercentage int  `json:"progress_percentage"`
}

// UserStats holds the derived account-wide totals across all courses a
// user owns. Never persisted.
type UserStats struct {
	TotalCourses      int `json:"total_courses"`
	CompletedCourses  int `json:"completed_courses"`
	TotalChapters     int `json:"total_chapters"`
	CompletedChapters int `json:"completed_chapters"`
	OverallProgress   int `json:"overall_progress"`
}
