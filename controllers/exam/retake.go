package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/locale"
	"madrasa/middleware"
	validators "madrasa/validators/exam"
)

// SubmitRetakeRequest asks for another attempt
func SubmitRetakeRequest(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRetake").(*validators.RetakeRequest)

	req, err := examService().SubmitRetake(c.UserContext(), middleware.CurrentUser(c), reqData.ExamID, reqData.PreviousResultID, reqData.Reason)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{
		"request": req,
		"message": middleware.Message(c, locale.MsgRetakeRequested),
	})
}

// GetRetakeRequests lists the pending requests of an exam
func GetRetakeRequests(c *fiber.Ctx) error {
	examID := c.Locals("examID").(uint)

	reqs, err := examService().RetakeRequests(c.UserContext(), middleware.CurrentUser(c), examID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"requests": reqs})
}

func ApproveRetake(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(uint)

	req, err := examService().ApproveRetake(c.UserContext(), middleware.CurrentUser(c), requestID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"request": req})
}

func RejectRetake(c *fiber.Ctx) error {
	requestID := c.Locals("requestID").(uint)

	req, err := examService().RejectRetake(c.UserContext(), middleware.CurrentUser(c), requestID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"request": req})
}

// BulkApproveRetakes approves the pending requests among requestIds and reports how many moved
func BulkApproveRetakes(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBulkReview").(*validators.BulkReviewRequest)

	count, err := examService().BulkApprove(c.UserContext(), middleware.CurrentUser(c), reqData.RequestIDs)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"count": count})
}

// BulkRejectRetakes rejects the pending requests among requestIds and reports how many moved
func BulkRejectRetakes(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBulkReview").(*validators.BulkReviewRequest)

	count, err := examService().BulkReject(c.UserContext(), middleware.CurrentUser(c), reqData.RequestIDs)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"count": count})
}
