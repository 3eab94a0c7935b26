package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/config"
	"madrasa/database"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/services/enrollment"
	"madrasa/services/identity"
	"madrasa/utils"
	validators "madrasa/validators/admin"
)

func identityStore() *identity.Store {
	return identity.NewStore(database.Database.Db, config.AppConfig.SaltRound)
}

// CreateUser adds a student, teacher or admin account
func CreateUser(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*validators.CreateUserRequest)

	user, err := identityStore().CreateUser(c.UserContext(), identity.NewUser{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Role:     models.Role(reqData.Role),
		Gender:   models.Gender(reqData.Gender),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"user": user})
}

// ToggleTeacherApproval flips a teacher's approval
func ToggleTeacherApproval(c *fiber.Ctx) error {
	teacherID := c.Locals("userID").(uint)

	user, err := identityStore().ToggleTeacherApproval(c.UserContext(), teacherID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"user": user})
}

func GetGenderRequests(c *fiber.Ctx) error {
	users, err := identityStore().PendingGenderChanges(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"requests": users})
}

func reviewGenderChange(c *fiber.Ctx, approve bool) error {
	studentID := c.Locals("userID").(uint)

	user, err := identityStore().ReviewGenderChange(c.UserContext(), middleware.CurrentUser(c).ID, studentID, approve)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	go utils.SendGenderChangeReviewedEmail(user.Email, user.Name, approve)
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"user": user})
}

func ApproveGenderChange(c *fiber.Ctx) error {
	return reviewGenderChange(c, true)
}

func RejectGenderChange(c *fiber.Ctx) error {
	return reviewGenderChange(c, false)
}

// AdvanceEnrollment moves a program enrollment to its next semester
func AdvanceEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	e, err := enrollment.NewLedger(database.Database.Db).AdvanceSemester(c.UserContext(), enrollmentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"enrollment": e})
}
