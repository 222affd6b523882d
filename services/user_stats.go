package services

import (
	"gorm.io/gorm"

	"learnhub/models"
)

// UserStatsService derives account-wide totals across all courses a user
// owns.
type UserStatsService struct {
	DB      *gorm.DB
	Courses *CourseProgressService
}

func NewUserStatsService(db *gorm.DB, courses *CourseProgressService) *UserStatsService {
	return &UserStatsService{DB: db, Courses: courses}
}

const (
	userCourseCountQuery = `
SELECT COUNT(*) AS count
FROM courses
WHERE courses.user_id = ? AND courses.deleted_at IS NULL`

	userChapterCountQuery = `
SELECT COUNT(chapters.id) AS count
FROM chapters
JOIN courses ON courses.id = chapters.course_id AND courses.deleted_at IS NULL
WHERE courses.user_id = ? AND chapters.deleted_at IS NULL`

	userCompletedChapterCountQuery = `
SELECT COUNT(chapter_progresses.id) AS count
FROM chapter_progresses
JOIN chapters ON chapters.id = chapter_progresses.chapter_id AND chapters.deleted_at IS NULL
JOIN courses ON courses.id = chapters.course_id AND courses.deleted_at IS NULL
WHERE courses.user_id = ? AND chapter_progresses.user_id = ? AND chapter_progresses.completed`
)

// GetUserStats combines four independent aggregate queries: the course
// count, the chapter count, the completed-chapter count, and the
// per-course summaries. The queries share no snapshot, so concurrent
// writes can produce momentary skew between the figures; that is accepted
// in exchange for four cheap reads.
func (s *UserStatsService) GetUserStats(userID uint) (*models.UserStats, error) {
	totalCourses, err := s.countQuery(userCourseCountQuery, userID)
	if err != nil {
		return nil, err
	}
	totalChapters, err := s.countQuery(userChapterCountQuery, userID)
	if err != nil {
		return nil, err
	}
	completedChapters, err := s.countQuery(userCompletedChapterCountQuery, userID, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.Courses.GetAllCoursesProgress(userID)
	if err != nil {
		return nil, err
	}

	completedCourses := 0
	for _, summary := range summaries {
		if summary.ProgressPercentage == 100 {
			completedCourses++
		}
	}

	return &models.UserStats{
		TotalCourses:      totalCourses,
		CompletedCourses:  completedCourses,
		TotalChapters:     totalChapters,
		CompletedChapters: completedChapters,
		OverallProgress:   Percentage(completedChapters, totalChapters),
	}, nil
}

func (s *UserStatsService) countQuery(query string, args ...interface{}) (int, error) {
	var row struct{ Count string }
	if err := s.DB.Raw(query, args...).Scan(&row).Error; err != nil {
		return 0, err
	}
	return parseAggregate("count", row.Count)
}
