package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is an objective question; CorrectOption indexes Options.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Marks         float64  `json:"marks"`
}

type Exam struct {
	gorm.Model
	Title       string                        `json:"title"`
	CourseID    *uint                         `json:"courseId" gorm:"index"`
	SemesterID  *uint                         `json:"semesterId" gorm:"index"`
	CreatedBy   uint                          `json:"createdBy" gorm:"index;not null"`
	TotalMarks  float64                       `json:"totalMarks"`
	PassMarks   float64                       `json:"passMarks"` // absolute score, used by certificate eligibility
	Questions   datatypes.JSONSlice[Question] `json:"questions,omitempty"`
	IsPublished bool                          `json:"isPublished" gorm:"default:false"`
}

type ResultStatus string

const (
	ResultSubmitted ResultStatus = "submitted"
	ResultGraded    ResultStatus = "graded"
)

// ExamResult is one attempt. Exactly one row per (student, exam) has IsLatest set.
type ExamResult struct {
	gorm.Model
	UserID        uint                     `json:"userId" gorm:"uniqueIndex:idx_result_attempt;not null"`
	ExamID        uint                     `json:"examId" gorm:"uniqueIndex:idx_result_attempt;not null"`
	AttemptNumber int                      `json:"attemptNumber" gorm:"uniqueIndex:idx_result_attempt;not null"`
	CourseID      *uint                    `json:"courseId" gorm:"index"`
	SemesterID    *uint                    `json:"semesterId" gorm:"index"`
	ObtainedMarks float64                  `json:"obtainedMarks"`
	TotalMarks    float64                  `json:"totalMarks"`
	Percentage    float64                  `json:"percentage"`
	Status        ResultStatus             `json:"status" gorm:"default:'submitted'"`
	IsLatest      bool                     `json:"isLatest" gorm:"index"`
	IsRetake      bool                     `json:"isRetake" gorm:"default:false"`
	CanRetake     bool                     `json:"canRetake" gorm:"default:false"`
	Answers       datatypes.JSONSlice[int] `json:"answers,omitempty"`
	SubmittedAt   time.Time                `json:"submittedAt"`
	GradedAt      *time.Time               `json:"gradedAt"`
}

type RetakeStatus string

const (
	RetakePending  RetakeStatus = "pending"
	RetakeApproved RetakeStatus = "approved"
	RetakeRejected RetakeStatus = "rejected"
)

// RetakeRequest asks to re-attempt an exam. At most one pending request per (student, exam);
// the partial unique index is created in database.createPartialIndexes.
type RetakeRequest struct {
	gorm.Model
	UserID           uint         `json:"userId" gorm:"index;not null"`
	ExamID           uint         `json:"examId" gorm:"index;not null"`
	PreviousResultID uint         `json:"previousResultId" gorm:"not null"`
	Reason           string       `json:"reason"`
	Status           RetakeStatus `json:"status" gorm:"index;default:'pending'"`
	RequestedAt      time.Time    `json:"requestedAt"`
	ReviewedBy       *uint        `json:"reviewedBy"`
	ReviewedAt       *time.Time   `json:"reviewedAt"`
}
