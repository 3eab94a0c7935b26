package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type GenderRequestStatus string

const (
	GenderRequestNone     GenderRequestStatus = "none"
	GenderRequestPending  GenderRequestStatus = "pending"
	GenderRequestApproved GenderRequestStatus = "approved"
	GenderRequestRejected GenderRequestStatus = "rejected"
)

// GenderChangeRequest is embedded in the student row; at most one is active at a time.
type GenderChangeRequest struct {
	Status          GenderRequestStatus `json:"status" gorm:"default:'none'"`
	RequestedGender Gender              `json:"requestedGender" gorm:"default:''"`
	Reason          string              `json:"reason" gorm:"default:''"`
	RequestedAt     *time.Time          `json:"requestedAt"`
	ReviewedBy      *uint               `json:"reviewedBy"`
	ReviewedAt      *time.Time          `json:"reviewedAt"`
}

// User is the single identity record for students, teachers and admins.
type User struct {
	gorm.Model
	Name         string              `json:"name" gorm:"default:''"`
	Email        string              `json:"email" gorm:"uniqueIndex;not null"`
	Password     string              `json:"-"`
	Role         Role                `json:"role" gorm:"index;default:'student'"`
	Gender       Gender              `json:"gender" gorm:"default:''"`
	IsApproved   bool                `json:"isApproved" gorm:"default:false"` // teachers only
	GenderChange GenderChangeRequest `json:"genderChangeRequest" gorm:"embedded;embeddedPrefix:gender_change_"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsActiveTeacher reports whether u is a teacher an admin has approved.
func (u User) IsActiveTeacher() bool {
	return u.Role == RoleTeacher && u.IsApproved
}
