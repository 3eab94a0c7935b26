package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/config"
	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/services/access"
	"madrasa/services/identity"
	validators "madrasa/validators/student"
)

func identityStore() *identity.Store {
	return identity.NewStore(database.Database.Db, config.AppConfig.SaltRound)
}

// GetLiveLink returns the live-class link matching the caller's gender
func GetLiveLink(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLiveLink").(*validators.LiveLinkQuery)

	out, err := access.NewResolver(database.Database.Db).StudentLiveLink(c.UserContext(), middleware.CurrentUser(c), reqData.SubjectID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, out)
}

// GetSubjectLessons lists the subject's lessons visible to the caller
func GetSubjectLessons(c *fiber.Ctx) error {
	subjectID := c.Locals("subjectID").(uint)

	lessons, err := access.NewResolver(database.Database.Db).SubjectLessons(c.UserContext(), middleware.CurrentUser(c), subjectID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"lessons": lessons})
}

// SetGender records the caller's gender the first time
func SetGender(c *fiber.Ctx) error {
	reqData := c.Locals("validatedGender").(*validators.SetGenderRequest)

	user, err := identityStore().SetGender(c.UserContext(), middleware.CurrentUser(c).ID, models.Gender(reqData.Gender))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"user": user})
}

// RequestGenderChange asks an admin to change the caller's gender
func RequestGenderChange(c *fiber.Ctx) error {
	reqData := c.Locals("validatedGenderChange").(*validators.GenderChangeRequest)

	user, err := identityStore().SubmitGenderChange(c.UserContext(), middleware.CurrentUser(c).ID, models.Gender(reqData.Gender), reqData.Reason)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"user": user})
}
