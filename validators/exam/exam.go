package examValidator

import (
	"github.com/gofiber/fiber/v2"

	"madrasa/validators"
)

type QuestionRequest struct {
	Text          string   `json:"text" validate:"notblank"`
	Options       []string `json:"options" validate:"min=2,dive,notblank"`
	CorrectOption int      `json:"correctOption" validate:"min=0"`
	Marks         float64  `json:"marks" validate:"gt=0"`
}

// CreateExamRequest names exactly one of courseId and semesterId; the exam service enforces it.
type CreateExamRequest struct {
	Title       string            `json:"title" validate:"notblank,max=200"`
	CourseID    *uint             `json:"courseId"`
	SemesterID  *uint             `json:"semesterId"`
	TotalMarks  float64           `json:"totalMarks" validate:"min=0"`
	PassMarks   float64           `json:"passMarks" validate:"min=0"`
	Questions   []QuestionRequest `json:"questions" validate:"dive"`
	IsPublished bool              `json:"isPublished"`
}

type SubmitRequest struct {
	Answers []int `json:"answers" validate:"dive,min=0"`
}

type GradeRequest struct {
	ObtainedMarks *float64 `json:"obtainedMarks" validate:"required,min=0"`
}

type RetakeRequest struct {
	ExamID           uint   `json:"examId" validate:"required"`
	PreviousResultID uint   `json:"previousResultId" validate:"required"`
	Reason           string `json:"reason" validate:"notblank,max=1000"`
}

type BulkReviewRequest struct {
	RequestIDs []uint `json:"requestIds" validate:"required,min=1,dive,required"`
}

func CreateExam() fiber.Handler {
	return validators.Validated[CreateExamRequest]("validatedExam")
}

func Submit() fiber.Handler {
	return validators.Validated[SubmitRequest]("validatedSubmission")
}

func Grade() fiber.Handler {
	return validators.Validated[GradeRequest]("validatedGrade")
}

func SubmitRetake() fiber.Handler {
	return validators.Validated[RetakeRequest]("validatedRetake")
}

func BulkReview() fiber.Handler {
	return validators.Validated[BulkReviewRequest]("validatedBulkReview")
}
