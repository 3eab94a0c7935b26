package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

type CreateProgramRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

type CreateSemesterRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

type CreateSubjectRequest struct {
	Title           string `json:"title" validate:"notblank,max=200"`
	IsGenderSplit   bool   `json:"isGenderSplit"`
	MaleTeacherID   *uint  `json:"maleTeacherId"`
	FemaleTeacherID *uint  `json:"femaleTeacherId"`
	MaleLiveLink    string `json:"maleLiveLink" validate:"omitempty,url"`
	FemaleLiveLink  string `json:"femaleLiveLink" validate:"omitempty,url"`
}

type CreateCourseRequest struct {
	Title         string `json:"title" validate:"notblank,max=200"`
	Description   string `json:"description"`
	IsPublished   bool   `json:"isPublished"`
	InstructorIDs []uint `json:"instructorIds" validate:"dive,required"`
}

// CreateSectionRequest names exactly one parent; the curriculum service enforces it.
type CreateSectionRequest struct {
	Title     string `json:"title" validate:"notblank,max=200"`
	CourseID  *uint  `json:"courseId"`
	SubjectID *uint  `json:"subjectId"`
}

type CreateLessonRequest struct {
	SectionID        uint    `json:"sectionId" validate:"required"`
	Title            string  `json:"title" validate:"notblank,max=200"`
	VideoSource      string  `json:"videoSource" validate:"max=32"`
	VideoKey         string  `json:"videoKey"`
	Duration         float64 `json:"duration" validate:"min=0"`
	IsFree           bool    `json:"isFree"`
	InstructorGender string  `json:"instructorGender" validate:"omitempty,gender"`
}

func CreateProgram() fiber.Handler {
	return validators.Validated[CreateProgramRequest]("validatedProgram")
}

func CreateSemester() fiber.Handler {
	return validators.Validated[CreateSemesterRequest]("validatedSemester")
}

func CreateSubject() fiber.Handler {
	return validators.Validated[CreateSubjectRequest]("validatedSubject")
}

func CreateCourse() fiber.Handler {
	return validators.Validated[CreateCourseRequest]("validatedCourse")
}

func CreateSection() fiber.Handler {
	return validators.Validated[CreateSectionRequest]("validatedSection")
}

func CreateLesson() fiber.Handler {
	return validators.Validated[CreateLessonRequest]("validatedNewLesson")
}
