package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/locale"
	"madrasa/middleware"
)

// ToggleCourseCompletion flips the manual completion flag of a course
func ToggleCourseCompletion(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	out, err := gate().ToggleCourse(c.UserContext(), middleware.CurrentUser(c), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	msg := locale.MsgCourseReopened
	if out.IsCompleted {
		msg = locale.MsgCourseCompleted
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{
		"isCompleted": out.IsCompleted,
		"completedAt": out.CompletedAt,
		"message":     middleware.Message(c, msg),
	})
}

// ToggleSemesterCompletion flips the manual completion flag of a semester
func ToggleSemesterCompletion(c *fiber.Ctx) error {
	semesterID := c.Locals("semesterID").(uint)

	out, err := gate().ToggleSemester(c.UserContext(), middleware.CurrentUser(c), semesterID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	msg := locale.MsgSemesterReopened
	if out.IsCompleted {
		msg = locale.MsgSemesterCompleted
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{
		"isCompleted": out.IsCompleted,
		"completedAt": out.CompletedAt,
		"message":     middleware.Message(c, msg),
	})
}
