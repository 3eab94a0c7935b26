package studentRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "madrasa/controllers/student"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/validators"
	studentValidators "madrasa/validators/student"
)

// SetupStudentRoutes sets up gender-gated content and gender profile routes
func SetupStudentRoutes(app *fiber.App) {
	student := middleware.RequireRoles(models.RoleStudent)

	studentGroup := app.Group("/student")
	studentGroup.Get("/live-link", middleware.JWTMiddleware, student, studentValidators.LiveLink(), controllers.GetLiveLink)
	studentGroup.Get("/subjects/:id/lessons", middleware.JWTMiddleware, student, validators.ID("id", "subjectID"), controllers.GetSubjectLessons)
	studentGroup.Put("/gender", middleware.JWTMiddleware, student, studentValidators.SetGender(), controllers.SetGender)
	studentGroup.Post("/gender-change-request", middleware.JWTMiddleware, student, studentValidators.GenderChange(), controllers.RequestGenderChange)
}
