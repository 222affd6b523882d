package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/models"
)

func TestGetCourseProgressUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	summary, err := service.GetCourseProgress(7, 999)
	require.NoError(t, err, "an absent course is not an error")
	assert.Nil(t, summary)
}

func TestGetCourseProgressNotOwned(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	course := seedCourse(t, db, 8, 3)

	summary, err := service.GetCourseProgress(7, course.ID)
	require.NoError(t, err)
	assert.Nil(t, summary, "another user's course yields no aggregate row")
}

func TestGetCourseProgressCounts(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	course := seedCourse(t, db, 7, 3)
	completeChapters(t, db, 7, course, 2)

	summary, err := service.GetCourseProgress(7, course.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, course.ID, summary.CourseID)
	assert.Equal(t, 3, summary.TotalChapters)
	assert.Equal(t, 2, summary.CompletedChapters)
	assert.Equal(t, 67, summary.ProgressPercentage)
}

func TestGetCourseProgressIgnoresOtherUsersCompletions(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	course := seedCourse(t, db, 7, 3)
	// Another learner completing chapters must not count for user 7.
	completeChapters(t, db, 8, course, 3)

	summary, err := service.GetCourseProgress(7, course.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.TotalChapters)
	assert.Equal(t, 0, summary.CompletedChapters)
	assert.Equal(t, 0, summary.ProgressPercentage)
}

func TestGetCourseProgressNoChapters(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	course := seedCourse(t, db, 7, 0)

	summary, err := service.GetCourseProgress(7, course.ID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.TotalChapters)
	assert.Equal(t, 0, summary.CompletedChapters)
	assert.Equal(t, 0, summary.ProgressPercentage, "zero chapters is 0%, not a division error")
}

func TestGetAllCoursesProgressPreservesRows(t *testing.T) {
	db := setupTestDB(t)
	service := NewCourseProgressService(db)

	first := seedCourse(t, db, 7, 3)
	second := seedCourse(t, db, 7, 2)
	completeChapters(t, db, 7, first, 2)
	completeChapters(t, db, 7, second, 2)
	seedCourse(t, db, 8, 4) // someone else's course

	summaries, err := service.GetAllCoursesProgress(7)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byCourse := make(map[uint]models.CourseProgressSummary)
	for _, summary := range summaries {
		byCourse[summary.CourseID] = summary
	}
	assert.Equal(t, 67, byCourse[first.ID].ProgressPercentage)
	assert.Equal(t, 100, byCourse[second.ID].ProgressPercentage)
}

func TestParseCourseProgressRowTrustsStoredPercentage(t *testing.T) {
	// When the storage layer precomputed a percentage, it wins even when a
	// local recomputation would disagree.
	summary, err := parseCourseProgressRow(courseProgressRow{
		CourseID:           1,
		TotalChapters:      "3",
		CompletedChapters:  "2",
		ProgressPercentage: "50",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalChapters)
	assert.Equal(t, 2, summary.CompletedChapters)
	assert.Equal(t, 50, summary.ProgressPercentage)
}

func TestParseCourseProgressRowDerivesWhenAbsent(t *testing.T) {
	summary, err := parseCourseProgressRow(courseProgressRow{
		CourseID:          1,
		TotalChapters:     "3",
		CompletedChapters: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, 67, summary.ProgressPercentage)
}

func TestParseCourseProgressRowRejectsGarbage(t *testing.T) {
	_, err := parseCourseProgressRow(courseProgressRow{
		CourseID:          1,
		TotalChapters:     "three",
		CompletedChapters: "2",
	})
	assert.Error(t, err, "schema drift must fail loudly, not coerce to zero")
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(5, 0), "zero denominator is always 0")
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(4, 4))
	assert.Equal(t, 50, Percentage(1, 2))
}
