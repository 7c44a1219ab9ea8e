package services

import (
	"errors"
	"fmt"
	"log"
	"math"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// LessonProgress is one lesson with its completion tick mark, in course order
type LessonProgress struct {
	LessonID    uint   `json:"lesson_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// AssignmentProgress pairs an assignment title with the student's score,
// or a "Not graded" marker when no grade exists yet
type AssignmentProgress struct {
	AssignmentID uint   `json:"assignment_id"`
	Title        string `json:"title"`
	Score        string `json:"score"`
}

// CourseProgress is the aggregated completion view for one student in one course
type CourseProgress struct {
	CourseID             uint                 `json:"course_id"`
	CourseTitle          string               `json:"course_title"`
	CompletionPercentage float64              `json:"completion_percentage"`
	TotalLessons         int                  `json:"total_lessons"`
	CompletedLessons     int                  `json:"completed_lessons"`
	Lessons              []LessonProgress     `json:"lessons"`
	Assignments          []AssignmentProgress `json:"assignments"`
}

// ProgressService aggregates lesson completions into a course completion
// percentage and keeps the enrollment row in sync with it.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// GetCourseProgress computes the student's completion state for a course.
// The computed percentage is written back onto the enrollment row when one
// exists; with no underlying data change the call is idempotent.
func (s *ProgressService) GetCourseProgress(studentID, courseID uint) (*CourseProgress, error) {
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, NewNotFoundError("Course")
	}

	lessons, err := s.lessonsInCourseOrder(courseID)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.completedLessonIDs(studentID, courseID)
	if err != nil {
		return nil, err
	}

	totalLessons := len(lessons)
	completedLessons := 0
	for _, lesson := range lessons {
		if completedIDs[lesson.ID] {
			completedLessons++
		}
	}

	// Zero lessons means zero percent, not a division by zero
	percentage := 0.0
	if totalLessons > 0 {
		percentage = float64(completedLessons) / float64(totalLessons) * 100
	}

	// Write the raw percentage back onto the enrollment; skipped silently
	// when the student has no enrollment for this course.
	var enrollment courseModels.Enrollment
	err = s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		First(&enrollment).Error
	if err == nil {
		enrollment.ProgressPercent = percentage
		if saveErr := s.db.Save(&enrollment).Error; saveErr != nil {
			log.Printf("[PROGRESS] Failed to write back progress for user %d course %d: %v", studentID, courseID, saveErr)
			return nil, &PersistenceError{Op: "GetCourseProgress", Err: saveErr}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "GetCourseProgress", Err: err}
	}

	lessonViews := make([]LessonProgress, len(lessons))
	for i, lesson := range lessons {
		lessonViews[i] = LessonProgress{
			LessonID:    lesson.ID,
			Title:       lesson.Title,
			IsCompleted: completedIDs[lesson.ID],
		}
	}

	assignments, err := s.assignmentScores(studentID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseProgress{
		CourseID:             courseID,
		CourseTitle:          course.Title,
		CompletionPercentage: math.Round(percentage),
		TotalLessons:         totalLessons,
		CompletedLessons:     completedLessons,
		Lessons:              lessonViews,
		Assignments:          assignments,
	}, nil
}

// MarkLessonComplete records a completed lesson for an enrolled student and
// refreshes the stored percentage. Completing the same lesson twice is a no-op
// conflict rather than a second progress row.
func (s *ProgressService) MarkLessonComplete(studentID, courseID, lessonID uint) (*courseModels.Progress, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		First(&enrollment).Error; err != nil {
		return nil, NewNotFoundError("Enrollment")
	}

	var lesson courseModels.Lesson
	if err := s.db.Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.id = ? AND modules.course_id = ? AND lessons.is_deleted = ? AND modules.is_deleted = ?",
			lessonID, courseID, false, false).
		First(&lesson).Error; err != nil {
		return nil, NewNotFoundError("Lesson")
	}

	var existing courseModels.Progress
	err := s.db.Where("enrollment_id = ? AND lesson_id = ? AND is_deleted = ?", enrollment.ID, lessonID, false).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "MarkLessonComplete", Err: err}
	}

	record := courseModels.Progress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
	}

	tx := s.db.Begin()
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		log.Printf("[PROGRESS] Failed to record completion for enrollment %d lesson %d: %v", enrollment.ID, lessonID, err)
		return nil, &PersistenceError{Op: "MarkLessonComplete", Err: err}
	}
	tx.Commit()

	// Refresh the stored percentage
	if _, err := s.GetCourseProgress(studentID, courseID); err != nil {
		log.Printf("[PROGRESS] Progress refresh after completion failed for user %d course %d: %v", studentID, courseID, err)
	}

	return &record, nil
}

// RecomputeEnrollment recalculates and stores the percentage for a single
// enrollment row. Used by the reconciliation scheduler.
func (s *ProgressService) RecomputeEnrollment(enrollment *courseModels.Enrollment) error {
	lessons, err := s.lessonsInCourseOrder(enrollment.CourseID)
	if err != nil {
		return err
	}

	// Only completions of lessons that still exist count; a completion row
	// for a since-deleted lesson must not push the percentage past 100.
	var completed int64
	if err := s.db.Model(&courseModels.Progress{}).
		Joins("JOIN lessons ON lessons.id = progresses.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("progresses.enrollment_id = ? AND progresses.is_deleted = ? AND lessons.is_deleted = ? AND modules.is_deleted = ?",
			enrollment.ID, false, false, false).
		Count(&completed).Error; err != nil {
		return &PersistenceError{Op: "RecomputeEnrollment", Err: err}
	}

	percentage := 0.0
	if len(lessons) > 0 {
		percentage = float64(completed) / float64(len(lessons)) * 100
	}

	if enrollment.ProgressPercent == percentage {
		return nil
	}
	enrollment.ProgressPercent = percentage
	if err := s.db.Save(enrollment).Error; err != nil {
		return &PersistenceError{Op: "RecomputeEnrollment", Err: err}
	}
	return nil
}

// lessonsInCourseOrder returns all lessons of a course ordered by module
// order first, then lesson order.
func (s *ProgressService) lessonsInCourseOrder(courseID uint) ([]courseModels.Lesson, error) {
	var lessons []courseModels.Lesson
	err := s.db.Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND lessons.is_deleted = ?", courseID, false, false).
		Order("modules.order_index asc, lessons.order_index asc").
		Find(&lessons).Error
	if err != nil {
		return nil, &PersistenceError{Op: "lessonsInCourseOrder", Err: err}
	}
	return lessons, nil
}

// completedLessonIDs resolves the lessons this student completed in this
// course through the enrollment -> progress join.
func (s *ProgressService) completedLessonIDs(studentID, courseID uint) (map[uint]bool, error) {
	var lessonIDs []uint
	err := s.db.Model(&courseModels.Progress{}).
		Joins("JOIN enrollments ON enrollments.id = progresses.enrollment_id").
		Where("enrollments.user_id = ? AND enrollments.course_id = ? AND progresses.is_deleted = ?", studentID, courseID, false).
		Pluck("progresses.lesson_id", &lessonIDs).Error
	if err != nil {
		return nil, &PersistenceError{Op: "completedLessonIDs", Err: err}
	}

	completed := make(map[uint]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		completed[id] = true
	}
	return completed, nil
}

// assignmentScores builds the per-assignment score list for the student
func (s *ProgressService) assignmentScores(studentID, courseID uint) ([]AssignmentProgress, error) {
	var submissions []courseModels.AssignmentSubmission
	err := s.db.Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.user_id = ? AND assignments.course_id = ? AND assignment_submissions.is_deleted = ?",
			studentID, courseID, false).
		Order("assignment_submissions.submitted_at asc").
		Find(&submissions).Error
	if err != nil {
		return nil, &PersistenceError{Op: "assignmentScores", Err: err}
	}

	scores := make([]AssignmentProgress, len(submissions))
	for i, sub := range submissions {
		var assignment courseModels.Assignment
		title := "Unknown"
		if err := s.db.Where("id = ?", sub.AssignmentID).First(&assignment).Error; err == nil {
			title = assignment.Title
		}
		score := "Not graded"
		if sub.Grade != nil {
			score = formatScore(*sub.Grade)
		}
		scores[i] = AssignmentProgress{
			AssignmentID: sub.AssignmentID,
			Title:        title,
			Score:        score,
		}
	}
	return scores, nil
}

func formatScore(grade float64) string {
	if grade == math.Trunc(grade) {
		return fmt.Sprintf("%.0f", grade)
	}
	return fmt.Sprintf("%.2f", grade)
}
