package course

import (
	"time"

	"gorm.io/gorm"

	"madrasa/models"
)

// Course is a flat curriculum container: Course -> Section -> Lesson.
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order" gorm:"column:sort_order;default:0"`
	IsPublished bool   `json:"isPublished" gorm:"default:false"`

	// Manual completion marker set by an instructor or admin. It is never derived from Progress.
	IsCompleted bool       `json:"isCompleted" gorm:"default:false"`
	CompletedAt *time.Time `json:"completedAt"`

	Instructors []models.User `json:"instructors,omitempty" gorm:"many2many:course_instructors;"`
}

// Program is a multi-semester curriculum: Program -> Semester -> Subject -> Section -> Lesson.
type Program struct {
	gorm.Model
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Order       int               `json:"order" gorm:"column:sort_order;default:0"`
	IsPublished bool              `json:"isPublished" gorm:"default:false"`
	Semesters   []ProgramSemester `json:"semesters,omitempty" gorm:"foreignKey:ProgramID"`
}

type ProgramSemester struct {
	gorm.Model
	ProgramID   uint       `json:"programId" gorm:"index;not null"`
	Title       string     `json:"title"`
	Order       int        `json:"order" gorm:"column:sort_order;default:0"`
	IsCompleted bool       `json:"isCompleted" gorm:"default:false"`
	CompletedAt *time.Time `json:"completedAt"`
	Subjects    []Subject  `json:"subjects,omitempty" gorm:"foreignKey:SemesterID"`
}

// Subject groups content inside a semester. A gender-split subject is delivered on separate
// male and female tracks, each with its own teacher and live-class link.
type Subject struct {
	gorm.Model
	SemesterID      uint   `json:"semesterId" gorm:"index;not null"`
	Title           string `json:"title"`
	Order           int    `json:"order" gorm:"column:sort_order;default:0"`
	IsGenderSplit   bool   `json:"isGenderSplit" gorm:"default:false"`
	MaleTeacherID   *uint  `json:"maleTeacherId"`
	FemaleTeacherID *uint  `json:"femaleTeacherId"`
	MaleLiveLink    string `json:"-" gorm:"default:''"`
	FemaleLiveLink  string `json:"-" gorm:"default:''"`
}

// Section belongs to exactly one of Course or Subject.
type Section struct {
	gorm.Model
	Title     string `json:"title"`
	CourseID  *uint  `json:"courseId" gorm:"index"`
	SubjectID *uint  `json:"subjectId" gorm:"index"`
	Order     int    `json:"order" gorm:"column:sort_order;default:0"`
}

type Lesson struct {
	gorm.Model
	SectionID        uint          `json:"sectionId" gorm:"index;not null"`
	SemesterID       *uint         `json:"semesterId" gorm:"index"` // copied from the section's subject
	Title            string        `json:"title"`
	VideoSource      string        `json:"videoSource" gorm:"default:''"`
	VideoKey         string        `json:"videoKey,omitempty" gorm:"default:''"`
	Duration         float64       `json:"duration" gorm:"default:0"` // seconds
	IsFree           bool          `json:"isFree" gorm:"default:false"`
	InstructorGender models.Gender `json:"instructorGender" gorm:"default:''"`
	Order            int           `json:"order" gorm:"column:sort_order;default:0"`
}
