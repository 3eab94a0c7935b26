package adminRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "madrasa/controllers/admin"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/validators"
	adminValidators "madrasa/validators/admin"
)

// SetupAdminRoutes sets up account, approval and enrollment administration routes
func SetupAdminRoutes(app *fiber.App) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/users", middleware.JWTMiddleware, admin, adminValidators.CreateUser(), controllers.CreateUser)
	adminGroup.Patch("/teachers/:id/approval", middleware.JWTMiddleware, admin, validators.ID("id", "userID"), controllers.ToggleTeacherApproval)
	adminGroup.Get("/gender-requests", middleware.JWTMiddleware, admin, controllers.GetGenderRequests)
	adminGroup.Post("/gender-requests/:id/approve", middleware.JWTMiddleware, admin, validators.ID("id", "userID"), controllers.ApproveGenderChange)
	adminGroup.Post("/gender-requests/:id/reject", middleware.JWTMiddleware, admin, validators.ID("id", "userID"), controllers.RejectGenderChange)
	adminGroup.Post("/enrollments/:id/advance", middleware.JWTMiddleware, admin, validators.ID("id", "enrollmentID"), controllers.AdvanceEnrollment)
}
