package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"learnhub/config"
	"learnhub/models"
	"learnhub/services"
	"learnhub/utils"
)

// FinalTestsController serves the optional final-assessment feature. Every
// route checks the schema gate first and answers 404 when the tables have
// not been migrated, so a half-migrated database never produces SQL errors
// in user-facing handlers.
type FinalTestsController struct {
	DB   *gorm.DB
	Cfg  *config.Config
	Gate *services.SchemaGate
}

func NewFinalTestsController(db *gorm.DB, cfg *config.Config, gate *services.SchemaGate) *FinalTestsController {
	return &FinalTestsController{DB: db, Cfg: cfg, Gate: gate}
}

func (ftc *FinalTestsController) gateClosed(c *fiber.Ctx) error {
	return utils.NotFound(c, "Final tests are not available")
}

func (ftc *FinalTestsController) GetFinalTest(c *fiber.Ctx) error {
	if !ftc.Gate.IsAvailable() {
		return ftc.gateClosed(c)
	}

	userID, err := utils.ExtractUserIDFromToken(c, ftc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ftc.DB.Where("user_id = ?", userID).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var finalTest models.FinalTest
	if err := ftc.DB.Preload("Questions").Where("course_id = ?", course.ID).First(&finalTest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Final test not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Hide correct answers; options are stored as a JSON string.
	questions := make([]fiber.Map, 0, len(finalTest.Questions))
	for _, q := range finalTest.Questions {
		var options []string
		json.Unmarshal([]byte(q.Options), &options)

		questions = append(questions, fiber.Map{
			"id":       q.ID,
			"question": q.Question,
			"options":  options,
			"order":    q.SequenceOrder,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":            finalTest.ID,
		"course_id":     finalTest.CourseID,
		"title":         finalTest.Title,
		"passing_score": finalTest.PassingScore,
		"questions":     questions,
	})
}

func (ftc *FinalTestsController) SubmitAttempt(c *fiber.Ctx) error {
	if !ftc.Gate.IsAvailable() {
		return ftc.gateClosed(c)
	}

	userID, err := utils.ExtractUserIDFromToken(c, ftc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	type AttemptInput struct {
		Answers map[string]int `json:"answers"` // question ID -> chosen option index
	}
	var input AttemptInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var finalTest models.FinalTest
	if err := ftc.DB.Preload("Questions").First(&finalTest, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Final test not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	correct := 0
	for _, q := range finalTest.Questions {
		answer, ok := input.Answers[strconv.Itoa(int(q.ID))]
		if ok && answer == q.CorrectAnswer {
			correct++
		}
	}
	score := services.Percentage(correct, len(finalTest.Questions))

	attempt := models.FinalTestAttempt{
		FinalTestID: finalTest.ID,
		UserID:      userID,
		AttemptRef:  uuid.NewString(),
		Score:       score,
		Passed:      score >= finalTest.PassingScore,
	}
	if err := ftc.DB.Create(&attempt).Error; err != nil {
		return utils.InternalServerError(c, "Could not record attempt")
	}

	return utils.Created(c, fiber.Map{
		"attempt_ref": attempt.AttemptRef,
		"score":       attempt.Score,
		"passed":      attempt.Passed,
		"correct":     correct,
		"questions":   len(finalTest.Questions),
	})
}

func (ftc *FinalTestsController) GetAttempts(c *fiber.Ctx) error {
	if !ftc.Gate.IsAvailable() {
		return ftc.gateClosed(c)
	}

	userID, err := utils.ExtractUserIDFromToken(c, ftc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	var attempts []models.FinalTestAttempt
	if err := ftc.DB.Where("final_test_id = ? AND user_id = ?", testID, userID).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(attempts))
	for _, attempt := range attempts {
		result = append(result, fiber.Map{
			"attempt_ref": attempt.AttemptRef,
			"score":       attempt.Score,
			"passed":      attempt.Passed,
			"created_at":  attempt.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// MigrateFinalTests creates the optional tables and clears the gate cache
// so the next availability check sees them.
func (ftc *FinalTestsController) MigrateFinalTests(c *fiber.Ctx) error {
	if err := ftc.DB.AutoMigrate(
		&models.FinalTest{},
		&models.FinalTestQuestion{},
		&models.FinalTestAttempt{},
	); err != nil {
		return utils.InternalServerError(c, "Could not migrate final test tables")
	}

	ftc.Gate.ClearCache()

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Final test tables migrated",
	})
}

func (ftc *FinalTestsController) CreateFinalTest(c *fiber.Ctx) error {
	if !ftc.Gate.IsAvailable() {
		return ftc.gateClosed(c)
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ftc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var finalTest models.FinalTest
	if err := c.BodyParser(&finalTest); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	finalTest.CourseID = course.ID
	if finalTest.PassingScore == 0 {
		finalTest.PassingScore = 60
	}

	if err := ftc.DB.Create(&finalTest).Error; err != nil {
		return utils.InternalServerError(c, "Could not create final test")
	}

	return utils.Created(c, finalTest)
}

func (ftc *FinalTestsController) AddQuestion(c *fiber.Ctx) error {
	if !ftc.Gate.IsAvailable() {
		return ftc.gateClosed(c)
	}

	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid test ID")
	}

	var finalTest models.FinalTest
	if err := ftc.DB.First(&finalTest, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Final test not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	type QuestionInput struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
		SequenceOrder int      `json:"sequence_order"`
	}
	var input QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CorrectAnswer < 0 || input.CorrectAnswer >= len(input.Options) {
		return utils.BadRequest(c, "Correct answer index out of range")
	}

	optionsJSON, err := json.Marshal(input.Options)
	if err != nil {
		return utils.BadRequest(c, "Invalid options")
	}

	question := models.FinalTestQuestion{
		FinalTestID:   finalTest.ID,
		Question:      input.Question,
		Options:       string(optionsJSON),
		CorrectAnswer: input.CorrectAnswer,
		SequenceOrder: input.SequenceOrder,
	}
	if err := ftc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return utils.Created(c, question)
}
