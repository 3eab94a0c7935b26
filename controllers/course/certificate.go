package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/locale"
	"madrasa/middleware"
	adminValidators "madrasa/validators/admin"
)

// GetCertificateEligibility reports how far the caller is from a course certificate
func GetCertificateEligibility(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	e, err := gate().Eligibility(c.UserContext(), middleware.CurrentUser(c).ID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"eligibility": e})
}

// RequestCertificate files a certificate request for a completed course
func RequestCertificate(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	req, err := gate().RequestCertificate(c.UserContext(), middleware.CurrentUser(c), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"request": req})
}

// AdminGetPendingCertificates lists certificate requests awaiting review
func AdminGetPendingCertificates(c *fiber.Ctx) error {
	reqs, err := gate().PendingCertificates(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"requests": reqs})
}

func AdminApproveCertificate(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(uint)

	cert, err := gate().ApproveCertificate(c.UserContext(), middleware.CurrentUser(c), requestID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{
		"certificate": cert,
		"message":     middleware.Message(c, locale.MsgCertificateIssued),
	})
}

func AdminRejectCertificate(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(uint)
	reqData := c.Locals("validatedRejection").(*adminValidators.RejectCertificateRequest)

	req, err := gate().RejectCertificate(c.UserContext(), middleware.CurrentUser(c), requestID, reqData.Reason)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{
		"request": req,
		"message": middleware.Message(c, locale.MsgCertificateRejected),
	})
}
