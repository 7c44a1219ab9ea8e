package course

import (
	"time"

	"gorm.io/gorm"
)

// Assignment represents a graded assignment within a course
type Assignment struct {
	gorm.Model
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"`
	MaxScore  float64   `json:"max_score" gorm:"default:100"`
	IsDeleted bool      `gorm:"default:false"`
}

// AssignmentSubmission is a student's submission for an assignment.
// Grade stays nil until the instructor grades it.
type AssignmentSubmission struct {
	gorm.Model
	AssignmentID uint      `json:"assignment_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Grade        *float64  `json:"grade"`
	Feedback     string    `json:"feedback" gorm:"size:1000"`
	IsDeleted    bool      `gorm:"default:false"`
}
