package course

import (
	"time"

	"gorm.io/gorm"
)

type CertificateStatus string

const (
	CertificatePending  CertificateStatus = "pending"
	CertificateApproved CertificateStatus = "approved"
	CertificateRejected CertificateStatus = "rejected"
)

// CertificateRequest represents a student's request for course completion certificate
type CertificateRequest struct {
	gorm.Model
	UserID          uint              `json:"userId" gorm:"index;not null"`
	CourseID        uint              `json:"courseId" gorm:"index;not null"`
	Status          CertificateStatus `json:"status" gorm:"default:'pending'"`
	RequestedAt     time.Time         `json:"requestedAt"`
	ReviewedAt      *time.Time        `json:"reviewedAt"`
	ReviewedBy      *uint             `json:"reviewedBy"`
	RejectionReason string            `json:"rejectionReason"`
}

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"userId" gorm:"index;not null"`
	CourseID          uint      `json:"courseId" gorm:"index;not null"`
	RequestID         uint      `json:"requestId" gorm:"index"`
	CertificateNumber string    `json:"certificateNumber" gorm:"uniqueIndex"`
	CertificateURL    string    `json:"certificateUrl"`
	IssuedAt          time.Time `json:"issuedAt"`
}
