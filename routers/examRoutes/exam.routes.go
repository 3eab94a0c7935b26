package examRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "madrasa/controllers/exam"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/validators"
	examValidators "madrasa/validators/exam"
)

// SetupExamRoutes sets up exam, result and retake routes
func SetupExamRoutes(app *fiber.App) {
	student := middleware.RequireRoles(models.RoleStudent)
	staff := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)

	examGroup := app.Group("/exams")
	examGroup.Post("/", middleware.JWTMiddleware, staff, examValidators.CreateExam(), controllers.CreateExam)
	examGroup.Post("/:id/submit", middleware.JWTMiddleware, student, validators.ID("id", "examID"), examValidators.Submit(), controllers.SubmitExam)
	examGroup.Get("/:id/results/export", middleware.JWTMiddleware, staff, validators.ID("id", "examID"), controllers.ExportResults)
	examGroup.Get("/:id/retake-requests", middleware.JWTMiddleware, staff, validators.ID("id", "examID"), controllers.GetRetakeRequests)
	examGroup.Get("/:id/statistics", middleware.JWTMiddleware, staff, validators.ID("id", "examID"), controllers.GetStatistics)

	resultGroup := app.Group("/exam-results")
	resultGroup.Patch("/:id/grade", middleware.JWTMiddleware, staff, validators.ID("id", "resultID"), examValidators.Grade(), controllers.GradeResult)

	retakeGroup := app.Group("/exam-retakes")
	retakeGroup.Post("/", middleware.JWTMiddleware, student, examValidators.SubmitRetake(), controllers.SubmitRetakeRequest)
	retakeGroup.Post("/bulk-approve", middleware.JWTMiddleware, staff, examValidators.BulkReview(), controllers.BulkApproveRetakes)
	retakeGroup.Post("/bulk-reject", middleware.JWTMiddleware, staff, examValidators.BulkReview(), controllers.BulkRejectRetakes)
	retakeGroup.Post("/:id/approve", middleware.JWTMiddleware, staff, validators.ID("id", "requestID"), controllers.ApproveRetake)
	retakeGroup.Post("/:id/reject", middleware.JWTMiddleware, staff, validators.ID("id", "requestID"), controllers.RejectRetake)
}
