package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

// ProgressReport is the body of POST /progress.
type ProgressReport struct {
	LessonID            uint     `json:"lessonId" validate:"required"`
	CourseID            uint     `json:"courseId" validate:"required"`
	WatchedDuration     *float64 `json:"watchedDuration" validate:"omitempty,min=0"`
	TotalDuration       *float64 `json:"totalDuration" validate:"omitempty,min=0"`
	LastWatchedPosition *float64 `json:"lastWatchedPosition" validate:"omitempty,min=0"`
}

// LessonRef names a lesson within a course.
type LessonRef struct {
	LessonID uint `json:"lessonId" validate:"required"`
	CourseID uint `json:"courseId" validate:"required"`
}

type CourseProgressQuery struct {
	CourseID uint `query:"courseId" validate:"required"`
}

func RecordProgress() fiber.Handler {
	return validators.Validated[ProgressReport]("validatedProgress")
}

func LessonAction() fiber.Handler {
	return validators.Validated[LessonRef]("validatedLesson")
}

func CourseProgress() fiber.Handler {
	return validators.ValidatedQuery[CourseProgressQuery]("validatedProgressQuery")
}
