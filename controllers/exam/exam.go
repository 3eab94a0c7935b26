package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/middleware"
	courseModels "madrasa/models/course"
	"madrasa/services/exam"
	validators "madrasa/validators/exam"
)

func examService() *exam.Service {
	return exam.NewService(database.Database.Db)
}

// CreateExam stores an exam under a course or a semester
func CreateExam(c *fiber.Ctx) error {
	reqData := c.Locals("validatedExam").(*validators.CreateExamRequest)

	questions := make([]courseModels.Question, 0, len(reqData.Questions))
	for _, q := range reqData.Questions {
		questions = append(questions, courseModels.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Marks:         q.Marks,
		})
	}

	created, err := examService().CreateExam(c.UserContext(), middleware.CurrentUser(c), exam.NewExam{
		Title:       reqData.Title,
		CourseID:    reqData.CourseID,
		SemesterID:  reqData.SemesterID,
		TotalMarks:  reqData.TotalMarks,
		PassMarks:   reqData.PassMarks,
		Questions:   questions,
		IsPublished: reqData.IsPublished,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"exam": created})
}

// SubmitExam stores the caller's attempt
func SubmitExam(c *fiber.Ctx) error {
	examID := c.Locals("examID").(uint)
	reqData := c.Locals("validatedSubmission").(*validators.SubmitRequest)

	result, err := examService().Submit(c.UserContext(), middleware.CurrentUser(c), examID, reqData.Answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"result": result})
}

// GradeResult records marks for a submitted attempt
func GradeResult(c *fiber.Ctx) error {
	resultID := c.Locals("resultID").(uint)
	reqData := c.Locals("validatedGrade").(*validators.GradeRequest)

	result, err := examService().Grade(c.UserContext(), middleware.CurrentUser(c), resultID, *reqData.ObtainedMarks)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"result": result})
}

// ExportResults downloads the latest attempts as a spreadsheet
func ExportResults(c *fiber.Ctx) error {
	examID := c.Locals("examID").(uint)

	data, err := examService().ExportResults(c.UserContext(), middleware.CurrentUser(c), examID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="exam-%d-results.xlsx"`, examID))
	return c.Status(fiber.StatusOK).Send(data)
}

// GetStatistics summarizes first attempts of an exam
func GetStatistics(c *fiber.Ctx) error {
	examID := c.Locals("examID").(uint)

	st, err := examService().Statistics(c.UserContext(), middleware.CurrentUser(c), examID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, st)
}
