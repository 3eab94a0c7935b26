package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "madrasa/controllers/course"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/validators"
	courseValidators "madrasa/validators/course"
)

// SetupCourseRoutes sets up progress, curriculum, completion and enrollment routes
func SetupCourseRoutes(app *fiber.App) {
	student := middleware.RequireRoles(models.RoleStudent)
	staff := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)
	admin := middleware.RequireRoles(models.RoleAdmin)

	progressGroup := app.Group("/progress")
	progressGroup.Post("/", middleware.JWTMiddleware, student, courseValidators.RecordProgress(), controllers.RecordProgress)
	progressGroup.Post("/complete", middleware.JWTMiddleware, student, courseValidators.LessonAction(), controllers.MarkLessonComplete)
	progressGroup.Post("/toggle", middleware.JWTMiddleware, student, courseValidators.LessonAction(), controllers.ToggleLessonComplete)
	progressGroup.Get("/", middleware.JWTMiddleware, student, courseValidators.CourseProgress(), controllers.GetCourseProgress)

	courseGroup := app.Group("/courses")
	courseGroup.Post("/", middleware.JWTMiddleware, staff, courseValidators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Patch("/:id/complete", middleware.JWTMiddleware, staff, validators.ID("id", "courseID"), controllers.ToggleCourseCompletion)
	courseGroup.Get("/:id/certificate/eligibility", middleware.JWTMiddleware, student, validators.ID("id", "courseID"), controllers.GetCertificateEligibility)
	courseGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, student, validators.ID("id", "courseID"), controllers.RequestCertificate)

	programGroup := app.Group("/programs")
	programGroup.Post("/", middleware.JWTMiddleware, admin, courseValidators.CreateProgram(), controllers.CreateProgram)
	programGroup.Post("/:id/semesters", middleware.JWTMiddleware, admin, validators.ID("id", "programID"), courseValidators.CreateSemester(), controllers.CreateSemester)

	semesterGroup := app.Group("/semesters")
	semesterGroup.Post("/:id/subjects", middleware.JWTMiddleware, admin, validators.ID("id", "semesterID"), courseValidators.CreateSubject(), controllers.CreateSubject)
	semesterGroup.Patch("/:id/complete", middleware.JWTMiddleware, staff, validators.ID("id", "semesterID"), controllers.ToggleSemesterCompletion)

	sectionGroup := app.Group("/sections")
	sectionGroup.Post("/", middleware.JWTMiddleware, staff, courseValidators.CreateSection(), controllers.CreateSection)
	sectionGroup.Delete("/:id", middleware.JWTMiddleware, staff, validators.ID("id", "sectionID"), controllers.DeleteSection)
	sectionGroup.Get("/:id/lessons", middleware.JWTMiddleware, middleware.AnyUser(), validators.ID("id", "sectionID"), controllers.GetSectionLessons)

	lessonGroup := app.Group("/lessons")
	lessonGroup.Post("/", middleware.JWTMiddleware, staff, courseValidators.CreateLesson(), controllers.CreateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, staff, validators.ID("id", "lessonID"), controllers.DeleteLesson)

	enrollmentGroup := app.Group("/enrollments")
	enrollmentGroup.Post("/", middleware.JWTMiddleware, student, courseValidators.Enroll(), controllers.Enroll)
	enrollmentGroup.Get("/", middleware.JWTMiddleware, student, controllers.GetEnrollments)
}
