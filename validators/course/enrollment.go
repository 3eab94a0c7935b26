package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

type EnrollRequest struct {
	TargetType string `json:"targetType" validate:"required,oneof=course program"`
	TargetID   uint   `json:"targetId" validate:"required"`
}

func Enroll() fiber.Handler {
	return validators.Validated[EnrollRequest]("validatedEnrollment")
}
