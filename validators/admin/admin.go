package adminValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,role"`
	Gender   string `json:"gender" validate:"omitempty,gender"`
}

type RejectCertificateRequest struct {
	Reason string `json:"reason" validate:"notblank,max=1000"`
}

func CreateUser() fiber.Handler {
	return validators.Validated[CreateUserRequest]("validatedUser")
}

func RejectCertificate() fiber.Handler {
	return validators.Validated[RejectCertificateRequest]("validatedRejection")
}
