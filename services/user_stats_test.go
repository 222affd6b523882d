package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStatsService(db *gorm.DB) *UserStatsService {
	return NewUserStatsService(db, NewCourseProgressService(db))
}

func TestGetUserStatsEmptyAccount(t *testing.T) {
	db := setupTestDB(t)
	service := newStatsService(db)

	stats, err := service.GetUserStats(7)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCourses)
	assert.Equal(t, 0, stats.CompletedCourses)
	assert.Equal(t, 0, stats.TotalChapters)
	assert.Equal(t, 0, stats.CompletedChapters)
	assert.Equal(t, 0, stats.OverallProgress, "no chapters means 0%, not NaN")
}

func TestGetUserStatsCombinesAggregates(t *testing.T) {
	db := setupTestDB(t)
	service := newStatsService(db)

	partial := seedCourse(t, db, 7, 3)
	full := seedCourse(t, db, 7, 2)
	completeChapters(t, db, 7, partial, 2)
	completeChapters(t, db, 7, full, 2)

	stats, err := service.GetUserStats(7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 1, stats.CompletedCourses, "only the fully completed course counts")
	assert.Equal(t, 5, stats.TotalChapters)
	assert.Equal(t, 4, stats.CompletedChapters)
	assert.Equal(t, 80, stats.OverallProgress)
}

func TestGetUserStatsIgnoresOtherUsers(t *testing.T) {
	db := setupTestDB(t)
	service := newStatsService(db)

	mine := seedCourse(t, db, 7, 2)
	completeChapters(t, db, 7, mine, 1)

	theirs := seedCourse(t, db, 8, 4)
	completeChapters(t, db, 8, theirs, 4)
	// Another user working through my course must not inflate my numbers.
	completeChapters(t, db, 8, mine, 2)

	stats, err := service.GetUserStats(7)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCourses)
	assert.Equal(t, 0, stats.CompletedCourses)
	assert.Equal(t, 2, stats.TotalChapters)
	assert.Equal(t, 1, stats.CompletedChapters)
	assert.Equal(t, 50, stats.OverallProgress)
}

func TestGetUserStatsChapterlessCourseNotCompleted(t *testing.T) {
	db := setupTestDB(t)
	service := newStatsService(db)

	seedCourse(t, db, 7, 0)

	stats, err := service.GetUserStats(7)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCourses)
	assert.Equal(t, 0, stats.CompletedCourses, "a course with no chapters is not 100%")
	assert.Equal(t, 0, stats.OverallProgress)
}
