package services

import (
	"fmt"
	"log"
	"time"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

const maxFeedbackLength = 1000

// GradeInput carries a grading request for one submission
type GradeInput struct {
	SubmissionID uint    `json:"submission_id"`
	AssignmentID uint    `json:"assignment_id"`
	Grade        float64 `json:"grade"`
	Feedback     string  `json:"feedback"`
}

// SubmissionListItem is the joined view returned when listing submissions
// for an assignment.
type SubmissionListItem struct {
	SubmissionID    uint      `json:"submission_id"`
	AssignmentID    uint      `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	UserID          uint      `json:"user_id"`
	StudentName     string    `json:"student_name"`
	StudentEmail    string    `json:"student_email"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Grade           *float64  `json:"grade"`
	Feedback        string    `json:"feedback"`
	MaxScore        float64   `json:"max_score"`
}

// GradingService validates and records scores for assignment submissions
type GradingService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewGradingService(db *gorm.DB, cfg *config.Config) *GradingService {
	return &GradingService{db: db, cfg: cfg}
}

// GradeSubmission records a score and feedback for one submission.
// The grade must fall within the assignment's score range and feedback is
// capped at 1000 characters. Re-grading overwrites unconditionally; there
// is no graded-once guard.
func (s *GradingService) GradeSubmission(input GradeInput) (*courseModels.AssignmentSubmission, error) {
	if s.cfg.ProductVariant == "PREMIUM" {
		// Premium grading currently shares the standard rules
		log.Printf("[GRADING] Grading premium submission %d for assignment %d", input.SubmissionID, input.AssignmentID)
	}

	if err := s.validate(input); err != nil {
		return nil, err
	}

	var submission courseModels.AssignmentSubmission
	if err := s.db.Where("id = ? AND is_deleted = ?", input.SubmissionID, false).First(&submission).Error; err != nil {
		return nil, NewNotFoundError("Submission")
	}

	grade := input.Grade
	submission.Grade = &grade
	submission.Feedback = input.Feedback

	tx := s.db.Begin()
	if err := tx.Save(&submission).Error; err != nil {
		tx.Rollback()
		log.Printf("[GRADING] Failed to save grade for submission %d: %v", input.SubmissionID, err)
		return nil, &PersistenceError{Op: "GradeSubmission", Err: err}
	}
	tx.Commit()

	return &submission, nil
}

// GetSubmissionsByAssignment lists all submissions for one assignment with
// student details for the grading screen.
func (s *GradingService) GetSubmissionsByAssignment(assignmentID uint) ([]SubmissionListItem, error) {
	var assignment courseModels.Assignment
	if err := s.db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return nil, NewNotFoundError("Assignment")
	}

	var submissions []courseModels.AssignmentSubmission
	if err := s.db.Where("assignment_id = ? AND is_deleted = ?", assignmentID, false).
		Order("submitted_at asc").Find(&submissions).Error; err != nil {
		return nil, &PersistenceError{Op: "GetSubmissionsByAssignment", Err: err}
	}

	items := make([]SubmissionListItem, len(submissions))
	for i, sub := range submissions {
		item := SubmissionListItem{
			SubmissionID:    sub.ID,
			AssignmentID:    sub.AssignmentID,
			AssignmentTitle: assignment.Title,
			UserID:          sub.UserID,
			StudentName:     "Unknown",
			SubmittedAt:     sub.SubmittedAt,
			Grade:           sub.Grade,
			Feedback:        sub.Feedback,
			MaxScore:        assignment.MaxScore,
		}
		var user models.User
		if err := s.db.Where("id = ?", sub.UserID).First(&user).Error; err == nil {
			item.StudentName = user.FullName
			item.StudentEmail = user.Email
		}
		items[i] = item
	}
	return items, nil
}

// GetSubmissionForGrading fetches one submission with its assignment context
func (s *GradingService) GetSubmissionForGrading(submissionID uint) (*SubmissionListItem, error) {
	var submission courseModels.AssignmentSubmission
	if err := s.db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return nil, NewNotFoundError("Submission")
	}

	item := SubmissionListItem{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		UserID:       submission.UserID,
		StudentName:  "Unknown",
		SubmittedAt:  submission.SubmittedAt,
		Grade:        submission.Grade,
		Feedback:     submission.Feedback,
	}

	var assignment courseModels.Assignment
	if err := s.db.Where("id = ?", submission.AssignmentID).First(&assignment).Error; err == nil {
		item.AssignmentTitle = assignment.Title
		item.MaxScore = assignment.MaxScore
	}
	var user models.User
	if err := s.db.Where("id = ?", submission.UserID).First(&user).Error; err == nil {
		item.StudentName = user.FullName
		item.StudentEmail = user.Email
	}
	return &item, nil
}

// validate checks the grade against the assignment's score range and the
// feedback length cap, collecting every violation.
func (s *GradingService) validate(input GradeInput) error {
	var violations []string

	var assignment courseModels.Assignment
	if err := s.db.Where("id = ? AND is_deleted = ?", input.AssignmentID, false).First(&assignment).Error; err != nil {
		violations = append(violations, fmt.Sprintf("assignment %d does not exist", input.AssignmentID))
	} else if input.Grade < 0 || input.Grade > assignment.MaxScore {
		violations = append(violations, fmt.Sprintf("grade must be between 0 and %g", assignment.MaxScore))
	}

	if len(input.Feedback) > maxFeedbackLength {
		violations = append(violations, fmt.Sprintf("feedback must not exceed %d characters", maxFeedbackLength))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
