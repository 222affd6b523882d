package services

import (
	"fmt"
	"math"
	"strconv"

	"gorm.io/gorm"

	"learnhub/models"
)

// CourseProgressService derives per-course chapter completion figures for
// a user from a single grouped query over the user's own courses.
type CourseProgressService struct {
	DB *gorm.DB
}

func NewCourseProgressService(db *gorm.DB) *CourseProgressService {
	return &CourseProgressService{DB: db}
}

// courseProgressRow is the raw aggregate row. The numeric columns arrive
// from the driver as text and are parsed in parseCourseProgressRow.
type courseProgressRow struct {
	CourseID           uint
	TotalChapters      string
	CompletedChapters  string
	ProgressPercentage string
}

const courseProgressSelect = `
SELECT
	courses.id AS course_id,
	COUNT(chapters.id) AS total_chapters,
	COALESCE(SUM(CASE WHEN chapter_progresses.completed THEN 1 ELSE 0 END), 0) AS completed_chapters,
	CAST(CASE
		WHEN COUNT(chapters.id) > 0 THEN
			ROUND(COALESCE(SUM(CASE WHEN chapter_progresses.completed THEN 1 ELSE 0 END), 0) * 100.0 / COUNT(chapters.id))
		ELSE 0
	END AS INTEGER) AS progress_percentage
FROM courses
LEFT JOIN chapters
	ON chapters.course_id = courses.id AND chapters.deleted_at IS NULL
LEFT JOIN chapter_progresses
	ON chapter_progresses.chapter_id = chapters.id AND chapter_progresses.user_id = ?
WHERE courses.user_id = ? AND courses.deleted_at IS NULL`

const courseProgressGroup = ` GROUP BY courses.id`

// GetCourseProgress returns the summary for one course, or nil when no
// aggregate row matched (course absent or owned by someone else). nil is a
// normal outcome, not an error.
func (s *CourseProgressService) GetCourseProgress(userID, courseID uint) (*models.CourseProgressSummary, error) {
	var rows []courseProgressRow
	query := courseProgressSelect + ` AND courses.id = ?` + courseProgressGroup
	if err := s.DB.Raw(query, userID, userID, courseID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	summary, err := parseCourseProgressRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetAllCoursesProgress returns one summary per course the user owns.
// Row order carries no meaning.
func (s *CourseProgressService) GetAllCoursesProgress(userID uint) ([]models.CourseProgressSummary, error) {
	var rows []courseProgressRow
	if err := s.DB.Raw(courseProgressSelect+courseProgressGroup, userID, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.CourseProgressSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := parseCourseProgressRow(row)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// parseCourseProgressRow converts the text aggregate columns to integers.
// The storage-computed percentage is trusted when the row carries one; it
// is only derived here when absent. Unparseable values are schema drift
// and fail loudly instead of being coerced to zero.
func parseCourseProgressRow(row courseProgressRow) (models.CourseProgressSummary, error) {
	total, err := parseAggregate("total_chapters", row.TotalChapters)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	completed, err := parseAggregate("completed_chapters", row.CompletedChapters)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}

	pct := Percentage(completed, total)
	if row.ProgressPercentage != "" {
		if pct, err = parseAggregate("progress_percentage", row.ProgressPercentage); err != nil {
			return models.CourseProgressSummary{}, err
		}
	}

	return models.CourseProgressSummary{
		CourseID:           row.CourseID,
		TotalChapters:      total,
		CompletedChapters:  completed,
		ProgressPercentage: pct,
	}, nil
}

func parseAggregate(column, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("aggregate column %s: unparseable value %q", column, value)
	}
	return n, nil
}

// Percentage is the zero-safe completion percentage shared by the
// aggregators: round(completed/total*100), or 0 when there is nothing to
// complete.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
