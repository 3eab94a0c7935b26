package controllers

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/database"
	"madrasa/locale"
	"madrasa/middleware"
	"madrasa/models"
	"madrasa/services/curriculum"
	validators "madrasa/validators/course"
)

func curriculumService() *curriculum.Service {
	return curriculum.NewService(database.Database.Db, nil)
}

func CreateProgram(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgram").(*validators.CreateProgramRequest)

	program, err := curriculumService().CreateProgram(c.UserContext(), curriculum.NewProgram{
		Title:       reqData.Title,
		Description: reqData.Description,
		IsPublished: reqData.IsPublished,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"program": program})
}

func CreateSemester(c *fiber.Ctx) error {
	programID := c.Locals("programID").(uint)
	reqData := c.Locals("validatedSemester").(*validators.CreateSemesterRequest)

	semester, err := curriculumService().CreateSemester(c.UserContext(), programID, reqData.Title)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"semester": semester})
}

func CreateSubject(c *fiber.Ctx) error {
	semesterID := c.Locals("semesterID").(uint)
	reqData := c.Locals("validatedSubject").(*validators.CreateSubjectRequest)

	subject, err := curriculumService().CreateSubject(c.UserContext(), curriculum.NewSubject{
		SemesterID:      semesterID,
		Title:           reqData.Title,
		IsGenderSplit:   reqData.IsGenderSplit,
		MaleTeacherID:   reqData.MaleTeacherID,
		FemaleTeacherID: reqData.FemaleTeacherID,
		MaleLiveLink:    reqData.MaleLiveLink,
		FemaleLiveLink:  reqData.FemaleLiveLink,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"subject": subject})
}

func CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*validators.CreateCourseRequest)

	course, err := curriculumService().CreateCourse(c.UserContext(), middleware.CurrentUser(c), curriculum.NewCourse{
		Title:         reqData.Title,
		Description:   reqData.Description,
		IsPublished:   reqData.IsPublished,
		InstructorIDs: reqData.InstructorIDs,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"course": course})
}

func CreateSection(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSection").(*validators.CreateSectionRequest)

	section, err := curriculumService().CreateSection(c.UserContext(), middleware.CurrentUser(c), curriculum.NewSection{
		Title:     reqData.Title,
		CourseID:  reqData.CourseID,
		SubjectID: reqData.SubjectID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"section": section})
}

func CreateLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNewLesson").(*validators.CreateLessonRequest)

	lesson, err := curriculumService().CreateLesson(c.UserContext(), middleware.CurrentUser(c), curriculum.NewLesson{
		SectionID:        reqData.SectionID,
		Title:            reqData.Title,
		VideoSource:      reqData.VideoSource,
		VideoKey:         reqData.VideoKey,
		Duration:         reqData.Duration,
		IsFree:           reqData.IsFree,
		InstructorGender: models.Gender(reqData.InstructorGender),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, fiber.Map{"lesson": lesson})
}

func DeleteSection(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	if err := curriculumService().DeleteSection(c.UserContext(), middleware.CurrentUser(c), sectionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"message": middleware.Message(c, locale.MsgDeleted)})
}

func DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	if err := curriculumService().DeleteLesson(c.UserContext(), middleware.CurrentUser(c), lessonID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"message": middleware.Message(c, locale.MsgDeleted)})
}

// GetSectionLessons lists a section's lessons in order
func GetSectionLessons(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	lessons, err := curriculumService().SectionLessons(c.UserContext(), sectionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, fiber.Map{"lessons": lessons})
}
