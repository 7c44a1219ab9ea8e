package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentActive    = "Active"
	EnrollmentCompleted = "Completed"
	EnrollmentDropped   = "Dropped"
	EnrollmentPending   = "Pending"
)

// ValidEnrollmentStatuses lists the accepted enrollment status values
var ValidEnrollmentStatuses = []string{
	EnrollmentActive,
	EnrollmentCompleted,
	EnrollmentDropped,
	EnrollmentPending,
}

// Enrollment tracks a user's enrollment in a course with progress.
// The composite unique index converts concurrent duplicate admissions
// into a constraint error instead of a silent second row.
type Enrollment struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID        uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	EnrollmentDate  time.Time  `json:"enrollment_date"`
	Status          string     `json:"status" gorm:"default:'Active'"` // Active, Completed, Dropped, Pending
	ProgressPercent float64    `json:"progress_percent" gorm:"default:0"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsDeleted       bool       `gorm:"default:false"`
}

// Progress records that a student completed a specific lesson within an enrollment
type Progress struct {
	gorm.Model
	EnrollmentID   uint       `json:"enrollment_id" gorm:"index;not null"`
	LessonID       uint       `json:"lesson_id" gorm:"index;not null"`
	LastAccessTime *time.Time `json:"last_access_time"`
	IsDeleted      bool       `gorm:"default:false"`
}
