package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/config"
	"learnhub/models"
	"learnhub/services"
	"learnhub/utils"
)

type ProgressController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Tracker *services.ProgressTracker
}

func NewProgressController(db *gorm.DB, cfg *config.Config, tracker *services.ProgressTracker) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Tracker: tracker}
}

func (pc *ProgressController) CompleteChapter(c *fiber.Ctx) error {
	return pc.mutate(c, pc.Tracker.MarkCompleted)
}

func (pc *ProgressController) UncompleteChapter(c *fiber.Ctx) error {
	return pc.mutate(c, pc.Tracker.MarkIncomplete)
}

func (pc *ProgressController) TouchChapter(c *fiber.Ctx) error {
	return pc.mutate(c, pc.Tracker.UpdateAccess)
}

func (pc *ProgressController) GetChapterProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	chapterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	progress, err := pc.Tracker.GetProgress(userID, uint(chapterID))
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, progress)
}

func (pc *ProgressController) mutate(c *fiber.Ctx, op func(userID, chapterID uint) (*models.ChapterProgress, error)) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	chapterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid chapter ID")
	}

	var chapter models.Chapter
	if err := pc.DB.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Chapter not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	progress, err := op(userID, uint(chapterID))
	if err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return utils.Success(c, fiber.StatusOK, progress)
}
