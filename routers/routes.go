package routers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/metrics"
	"madrasa/middleware"
	"madrasa/routers/adminRoutes"
	"madrasa/routers/courseRoutes"
	"madrasa/routers/examRoutes"
	"madrasa/routers/studentRoutes"
)

// Setup mounts every route group on app.
func Setup(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	examRoutes.SetupExamRoutes(app)
	studentRoutes.SetupStudentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
}
