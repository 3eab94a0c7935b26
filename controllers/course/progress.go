package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	"madrasa/services/progress"
	validators "madrasa/validators/course"
)

// RecordProgress stores a watch-time report
func RecordProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reqData := c.Locals("validatedProgress").(*validators.ProgressReport)

	record, err := progress.NewTracker(database.Database.Db).RecordProgress(c.UserContext(), progress.Report{
		UserID:              user.ID,
		LessonID:            reqData.LessonID,
		CourseID:            reqData.CourseID,
		WatchedDuration:     reqData.WatchedDuration,
		TotalDuration:       reqData.TotalDuration,
		LastWatchedPosition: reqData.LastWatchedPosition,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"progress": record})
}

// MarkLessonComplete completes a lesson; repeating it is harmless
func MarkLessonComplete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reqData := c.Locals("validatedLesson").(*validators.LessonRef)

	record, err := progress.NewTracker(database.Database.Db).MarkLessonComplete(c.UserContext(), user.ID, reqData.LessonID, reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"progress": record})
}

// ToggleLessonComplete flips a lesson between completed and not completed
func ToggleLessonComplete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reqData := c.Locals("validatedLesson").(*validators.LessonRef)

	record, err := progress.NewTracker(database.Database.Db).ToggleLessonComplete(c.UserContext(), user.ID, reqData.LessonID, reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"progress": record})
}

// GetCourseProgress lists the caller's progress records for a course with the aggregate
func GetCourseProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reqData := c.Locals("validatedProgressQuery").(*validators.CourseProgressQuery)

	cp, err := progress.NewTracker(database.Database.Db).CourseProgress(c.UserContext(), user.ID, reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, cp)
}
