package studentValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

type SetGenderRequest struct {
	Gender string `json:"gender" validate:"required,gender"`
}

type GenderChangeRequest struct {
	Gender string `json:"gender" validate:"required,gender"`
	Reason string `json:"reason" validate:"notblank,max=1000"`
}

type LiveLinkQuery struct {
	SubjectID uint `query:"subjectId" validate:"required"`
}

func SetGender() fiber.Handler {
	return validators.Validated[SetGenderRequest]("validatedGender")
}

func GenderChange() fiber.Handler {
	return validators.Validated[GenderChangeRequest]("validatedGenderChange")
}

func LiveLink() fiber.Handler {
	return validators.ValidatedQuery[LiveLinkQuery]("validatedLiveLink")
}
