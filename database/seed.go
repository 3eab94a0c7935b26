package database

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"madrasa/models"
	courseModels "madrasa/models/course"
)

// SeedFile is the YAML layout accepted by SEED_FILE.
type SeedFile struct {
	Users    []SeedUser    `yaml:"users"`
	Programs []SeedProgram `yaml:"programs"`
	Courses  []SeedCourse  `yaml:"courses"`
}

type SeedUser struct {
	Name     string        `yaml:"name"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	Role     models.Role   `yaml:"role"`
	Gender   models.Gender `yaml:"gender"`
	Approved bool          `yaml:"approved"`
}

type SeedProgram struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Published   bool           `yaml:"published"`
	Semesters   []SeedSemester `yaml:"semesters"`
}

type SeedSemester struct {
	Title    string        `yaml:"title"`
	Subjects []SeedSubject `yaml:"subjects"`
}

type SeedSubject struct {
	Title          string        `yaml:"title"`
	GenderSplit    bool          `yaml:"genderSplit"`
	MaleTeacher    string        `yaml:"maleTeacher"`
	FemaleTeacher  string        `yaml:"femaleTeacher"`
	MaleLiveLink   string        `yaml:"maleLiveLink"`
	FemaleLiveLink string        `yaml:"femaleLiveLink"`
	Sections       []SeedSection `yaml:"sections"`
}

type SeedCourse struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Published   bool          `yaml:"published"`
	Instructors []string      `yaml:"instructors"` // e-mails
	Sections    []SeedSection `yaml:"sections"`
}

type SeedSection struct {
	Title   string       `yaml:"title"`
	Lessons []SeedLesson `yaml:"lessons"`
}

type SeedLesson struct {
	Title            string        `yaml:"title"`
	VideoSource      string        `yaml:"videoSource"`
	VideoKey         string        `yaml:"videoKey"`
	Duration         float64       `yaml:"duration"`
	Free             bool          `yaml:"free"`
	InstructorGender models.Gender `yaml:"instructorGender"`
}

// ParseSeed decodes and checks a seed document.
func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	for i, u := range seed.Users {
		if u.Email == "" {
			return nil, fmt.Errorf("seed user %d: email is required", i)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("seed user %s: invalid role %q", u.Email, u.Role)
		}
		if u.Gender != models.GenderUnset && !u.Gender.Valid() {
			return nil, fmt.Errorf("seed user %s: invalid gender %q", u.Email, u.Gender)
		}
	}
	return &seed, nil
}

// LoadSeedFile reads path and applies it. Rows that already exist (by e-mail or title) are kept.
func LoadSeedFile(db *gorm.DB, path string, cost int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return err
	}
	return Seed(db, seed, cost)
}

// Seed writes seed in a single transaction.
func Seed(db *gorm.DB, seed *SeedFile, cost int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		users := make(map[string]models.User, len(seed.Users))
		for _, u := range seed.Users {
			user, err := seedUser(tx, u, cost)
			if err != nil {
				return err
			}
			users[user.Email] = user
		}

		for i, p := range seed.Programs {
			if err := seedProgram(tx, p, i+1, users); err != nil {
				return err
			}
		}
		for i, c := range seed.Courses {
			if err := seedCourse(tx, c, i+1, users); err != nil {
				return err
			}
		}

		log.Printf("[SEED] %d users, %d programs, %d courses", len(seed.Users), len(seed.Programs), len(seed.Courses))
		return nil
	})
}

func seedUser(tx *gorm.DB, u SeedUser, cost int) (models.User, error) {
	var user models.User
	if err := tx.Where("email = ?", u.Email).First(&user).Error; err == nil {
		return user, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return user, fmt.Errorf("hashing password for %s: %w", u.Email, err)
	}
	user = models.User{
		Name:       u.Name,
		Email:      u.Email,
		Password:   string(hash),
		Role:       u.Role,
		Gender:     u.Gender,
		IsApproved: u.Approved,
		GenderChange: models.GenderChangeRequest{
			Status: models.GenderRequestNone,
		},
	}
	if err := tx.Create(&user).Error; err != nil {
		return user, fmt.Errorf("creating seed user %s: %w", u.Email, err)
	}
	return user, nil
}

func teacherID(users map[string]models.User, email string) *uint {
	if u, ok := users[email]; ok {
		id := u.ID
		return &id
	}
	return nil
}

func seedProgram(tx *gorm.DB, p SeedProgram, order int, users map[string]models.User) error {
	var program courseModels.Program
	if err := tx.Where("title = ?", p.Title).First(&program).Error; err == nil {
		return nil
	}

	program = courseModels.Program{Title: p.Title, Description: p.Description, Order: order, IsPublished: p.Published}
	if err := tx.Create(&program).Error; err != nil {
		return fmt.Errorf("creating program %q: %w", p.Title, err)
	}

	for si, s := range p.Semesters {
		semester := courseModels.ProgramSemester{ProgramID: program.ID, Title: s.Title, Order: si + 1}
		if err := tx.Create(&semester).Error; err != nil {
			return fmt.Errorf("creating semester %q: %w", s.Title, err)
		}

		for ji, sub := range s.Subjects {
			subject := courseModels.Subject{
				SemesterID:      semester.ID,
				Title:           sub.Title,
				Order:           ji + 1,
				IsGenderSplit:   sub.GenderSplit,
				MaleTeacherID:   teacherID(users, sub.MaleTeacher),
				FemaleTeacherID: teacherID(users, sub.FemaleTeacher),
				MaleLiveLink:    sub.MaleLiveLink,
				FemaleLiveLink:  sub.FemaleLiveLink,
			}
			if err := tx.Create(&subject).Error; err != nil {
				return fmt.Errorf("creating subject %q: %w", sub.Title, err)
			}

			semesterID := semester.ID
			subjectID := subject.ID
			for ki, sec := range sub.Sections {
				section := courseModels.Section{Title: sec.Title, SubjectID: &subjectID, Order: ki + 1}
				if err := seedSection(tx, &section, sec.Lessons, &semesterID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedCourse(tx *gorm.DB, c SeedCourse, order int, users map[string]models.User) error {
	var course courseModels.Course
	if err := tx.Where("title = ?", c.Title).First(&course).Error; err == nil {
		return nil
	}

	course = courseModels.Course{Title: c.Title, Description: c.Description, Order: order, IsPublished: c.Published}
	for _, email := range c.Instructors {
		if u, ok := users[email]; ok {
			course.Instructors = append(course.Instructors, u)
		}
	}
	if err := tx.Create(&course).Error; err != nil {
		return fmt.Errorf("creating course %q: %w", c.Title, err)
	}

	courseID := course.ID
	for i, sec := range c.Sections {
		section := courseModels.Section{Title: sec.Title, CourseID: &courseID, Order: i + 1}
		if err := seedSection(tx, &section, sec.Lessons, nil); err != nil {
			return err
		}
	}
	return nil
}

func seedSection(tx *gorm.DB, section *courseModels.Section, lessons []SeedLesson, semesterID *uint) error {
	if err := tx.Create(section).Error; err != nil {
		return fmt.Errorf("creating section %q: %w", section.Title, err)
	}
	for i, l := range lessons {
		lesson := courseModels.Lesson{
			SectionID:        section.ID,
			SemesterID:       semesterID,
			Title:            l.Title,
			VideoSource:      l.VideoSource,
			VideoKey:         l.VideoKey,
			Duration:         l.Duration,
			IsFree:           l.Free,
			InstructorGender: l.InstructorGender,
			Order:            i + 1,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			return fmt.Errorf("creating lesson %q: %w", l.Title, err)
		}
	}
	return nil
}
