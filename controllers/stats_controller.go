package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"learnhub/config"
	"learnhub/services"
	"learnhub/utils"
)

type StatsController struct {
	Cfg     *config.Config
	Courses *services.CourseProgressService
	Stats   *services.UserStatsService
}

func NewStatsController(cfg *config.Config, courses *services.CourseProgressService, stats *services.UserStatsService) *StatsController {
	return &StatsController{Cfg: cfg, Courses: courses, Stats: stats}
}

// GetUserStats godoc
// @Summary Get account-wide statistics
// @Description Returns course and chapter completion totals for the authenticated user
// @Tags stats
// @Accept json
// @Produce json
// @Success 200 {object} models.UserStats
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (sc *StatsController) GetUserStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	stats, err := sc.Stats.GetUserStats(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute user stats")
	}

	return utils.Success(c, fiber.StatusOK, stats)
}

// GetCourseProgress godoc
// @Summary Get one course's progress
// @Description Returns chapter completion figures for one of the user's courses
// @Tags stats
// @Accept json
// @Produce json
// @Success 200 {object} models.CourseProgressSummary
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [get]
func (sc *StatsController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	summary, err := sc.Courses.GetCourseProgress(userID, uint(courseID))
	if err != nil {
		return utils.InternalServerError(c, "Could not compute course progress")
	}
	if summary == nil {
		// No aggregate row: course absent or not owned by the caller.
		return utils.NotFound(c, "Course not found")
	}

	return utils.Success(c, fiber.StatusOK, summary)
}
