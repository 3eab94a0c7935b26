package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "madrasa/controllers/course"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/validators"
	adminValidators "madrasa/validators/admin"
)

// SetupAdminCourseRoutes sets up certificate review routes
func SetupAdminCourseRoutes(app *fiber.App) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/pending", middleware.JWTMiddleware, admin, controllers.AdminGetPendingCertificates)
	certGroup.Post("/:id/approve", middleware.JWTMiddleware, admin, validators.ID("id", "requestID"), controllers.AdminApproveCertificate)
	certGroup.Post("/:id/reject", middleware.JWTMiddleware, admin, validators.ID("id", "requestID"), adminValidators.RejectCertificate(), controllers.AdminRejectCertificate)
}
