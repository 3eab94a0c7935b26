package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	courseModels "madrasa/models/course"
	"madrasa/services/enrollment"
	validators "madrasa/validators/course"
)

// Enroll adds a course or program to the caller's enrollment list
func Enroll(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEnrollment").(*validators.EnrollRequest)

	e, err := enrollment.NewLedger(database.Database.Db).Enroll(
		c.UserContext(), middleware.CurrentUser(c).ID, courseModels.TargetType(reqData.TargetType), reqData.TargetID,
	)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"enrollment": e})
}

// GetEnrollments lists the caller's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	list, err := enrollment.NewLedger(database.Database.Db).List(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"enrollments": list})
}
