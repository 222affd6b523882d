package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/config"
	"learnhub/controllers"
	"learnhub/middleware"
	"learnhub/services"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// One gate instance shared app-wide so the existence check runs once.
	gate := services.NewSchemaGate(db)
	tracker := services.NewProgressTracker(db)
	courseProgress := services.NewCourseProgressService(db)
	userStats := services.NewUserStatsService(db, courseProgress)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg, courseProgress, gate)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)

	// Chapter progress routes
	progressController := controllers.NewProgressController(db, cfg, tracker)
	chapters := app.Group("/api/chapters", authMiddleware)
	chapters.Post("/:id/complete", progressController.CompleteChapter)
	chapters.Post("/:id/incomplete", progressController.UncompleteChapter)
	chapters.Post("/:id/access", progressController.TouchChapter)
	chapters.Get("/:id/progress", progressController.GetChapterProgress)

	// Stats routes
	statsController := controllers.NewStatsController(cfg, courseProgress, userStats)
	app.Get("/api/stats", authMiddleware, statsController.GetUserStats)
	courses.Get("/:id/progress", statsController.GetCourseProgress)

	// Final test routes (gated on the optional tables)
	finalTestsController := controllers.NewFinalTestsController(db, cfg, gate)
	courses.Get("/:id/final-test", finalTestsController.GetFinalTest)
	finalTests := app.Group("/api/final-tests", authMiddleware)
	finalTests.Post("/:id/attempts", finalTestsController.SubmitAttempt)
	finalTests.Get("/:id/attempts", finalTestsController.GetAttempts)

	// Admin routes
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Post("/:id/chapters", coursesController.AddChapter)
	adminCourses.Post("/:id/final-test", finalTestsController.CreateFinalTest)

	adminFinalTests := app.Group("/api/admin/final-tests", authMiddleware, adminMiddleware)
	adminFinalTests.Post("/migrate", finalTestsController.MigrateFinalTests)
	adminFinalTests.Post("/:id/questions", finalTestsController.AddQuestion)
}
