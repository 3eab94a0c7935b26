package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TargetType string

const (
	TargetCourse  TargetType = "course"
	TargetProgram TargetType = "program"
)

func (t TargetType) Valid() bool {
	return t == TargetCourse || t == TargetProgram
}

// Enrollment is one entry of a student's enrollment list.
type Enrollment struct {
	gorm.Model
	UserID              uint       `json:"userId" gorm:"uniqueIndex:idx_enrollment_target;not null"`
	TargetType          TargetType `json:"targetType" gorm:"uniqueIndex:idx_enrollment_target;size:16;not null"`
	TargetID            uint       `json:"targetId" gorm:"uniqueIndex:idx_enrollment_target;not null"`
	LastWatchedLessonID *uint      `json:"lastWatchedLessonId"`
	EnrolledAt          time.Time  `json:"enrolledAt"`

	// Programs only.
	CurrentSemesterID  *uint                     `json:"currentSemesterId"`
	CompletedSemesters datatypes.JSONSlice[uint] `json:"completedSemesters"`
}

// Progress is the watch state of one student on one lesson.
type Progress struct {
	gorm.Model
	UserID              uint       `json:"userId" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID            uint       `json:"lessonId" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID            uint       `json:"courseId" gorm:"index;not null"`
	WatchedDuration     float64    `json:"watchedDuration" gorm:"default:0"`
	TotalDuration       float64    `json:"totalDuration" gorm:"default:0"`
	LastWatchedPosition float64    `json:"lastWatchedPosition" gorm:"default:0"`
	ProgressPercentage  float64    `json:"progressPercentage" gorm:"default:0"`
	IsCompleted         bool       `json:"isCompleted" gorm:"default:false"`
	CompletedAt         *time.Time `json:"completedAt"`
}

func (Progress) TableName() string { return "progress" }
